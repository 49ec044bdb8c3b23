package handlers

import (
	"net/http"
	"testing"

	"meter-reading-backend/internal/models"
	"meter-reading-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCustomerWriter struct {
	created []*models.Customer
	err     error
}

func (s *stubCustomerWriter) Create(customer *models.Customer) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, customer)
	return nil
}

func newCustomerRouter(writer *stubCustomerWriter) *gin.Engine {
	h := NewCustomerHandler(writer, zap.NewNop())
	r := gin.New()
	r.POST("/customer", h.Create)
	return r
}

func TestCreateCustomer(t *testing.T) {
	writer := &stubCustomerWriter{}
	ts := &testServer{router: newCustomerRouter(writer)}

	rec := ts.do(t, http.MethodPost, "/customer", map[string]interface{}{
		"customer_code": "c1",
		"name":          "Jane Doe",
		"email":         "jane@example.com",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "c1", decodeBody(t, rec)["customer_code"])
	require.Len(t, writer.created, 1)
	assert.Equal(t, "Jane Doe", writer.created[0].Name)
}

func TestCreateCustomer_GeneratesCodeWhenMissing(t *testing.T) {
	writer := &stubCustomerWriter{}
	ts := &testServer{router: newCustomerRouter(writer)}

	rec := ts.do(t, http.MethodPost, "/customer", map[string]interface{}{"name": "Jane Doe"})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["customer_code"])
}

func TestCreateCustomer_DuplicateCode(t *testing.T) {
	writer := &stubCustomerWriter{err: repository.ErrDuplicate}
	ts := &testServer{router: newCustomerRouter(writer)}

	rec := ts.do(t, http.MethodPost, "/customer", map[string]interface{}{
		"customer_code": "c1",
		"name":          "Jane Doe",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CUSTOMER_EXISTS", decodeBody(t, rec)["error_code"])
}

func TestCreateCustomer_NameRequired(t *testing.T) {
	ts := &testServer{router: newCustomerRouter(&stubCustomerWriter{})}

	rec := ts.do(t, http.MethodPost, "/customer", map[string]interface{}{"customer_code": "c1"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATA", decodeBody(t, rec)["error_code"])
}
