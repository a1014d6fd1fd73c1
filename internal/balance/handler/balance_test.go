package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spitex-domus/domus-backend/pkg/errors"
	"github.com/spitex-domus/domus-backend/pkg/httputil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestAs(employeeID, role, target string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return r.WithContext(httputil.WithUserContext(r.Context(), employeeID, employeeID, role))
}

func TestEffectiveEmployeeID(t *testing.T) {
	t.Run("defaults to own ID", func(t *testing.T) {
		id, err := effectiveEmployeeID(requestAs("emp-1", "EMPLOYEE", "/balances?year=2024"))
		require.NoError(t, err)
		assert.Equal(t, "emp-1", id)
	})

	t.Run("employee may name themselves", func(t *testing.T) {
		id, err := effectiveEmployeeID(requestAs("emp-1", "EMPLOYEE", "/balances?employee_id=emp-1"))
		require.NoError(t, err)
		assert.Equal(t, "emp-1", id)
	})

	t.Run("employee cannot reach another account", func(t *testing.T) {
		_, err := effectiveEmployeeID(requestAs("emp-1", "EMPLOYEE", "/balances?employee_id=emp-2"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrForbidden))
	})

	t.Run("admin may name anyone", func(t *testing.T) {
		id, err := effectiveEmployeeID(requestAs("adm-1", "ADMIN", "/balances?employee_id=emp-2"))
		require.NoError(t, err)
		assert.Equal(t, "emp-2", id)
	})

	t.Run("unauthenticated is rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/balances", nil)
		_, err := effectiveEmployeeID(r)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnauthorized))
	})
}
