package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTGatewayCreateOrder(t *testing.T) {
	t.Run("creates order and round-trips the minor-unit amount", func(t *testing.T) {
		var received map[string]interface{}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/orders", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "key_test", user)
			assert.Equal(t, "secret_test", pass)

			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(Order{
				ID:       "order_xyz",
				Amount:   50000,
				Currency: "INR",
				Receipt:  "enroll-42",
				Status:   "created",
			})
		}))
		defer server.Close()

		gw, err := NewRESTGateway(server.URL, "key_test", "secret_test")
		require.NoError(t, err)

		order, err := gw.CreateOrder(context.Background(), 50000, "INR", "enroll-42")
		require.NoError(t, err)
		assert.Equal(t, "order_xyz", order.ID)
		assert.Equal(t, int64(50000), order.Amount)
		// The amount is sent exactly as supplied, no unit conversion.
		assert.Equal(t, float64(50000), received["amount"])
	})

	t.Run("non-positive amount rejected before any call", func(t *testing.T) {
		gw, err := NewRESTGateway("http://unreachable.invalid", "k", "s")
		require.NoError(t, err)

		_, err = gw.CreateOrder(context.Background(), 0, "INR", "r")
		assert.Error(t, err)
	})

	t.Run("upstream 5xx surfaces as GatewayError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal", http.StatusBadGateway)
		}))
		defer server.Close()

		gw, err := NewRESTGateway(server.URL, "k", "s")
		require.NoError(t, err)

		_, err = gw.CreateOrder(context.Background(), 100, "INR", "r")
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, http.StatusBadGateway, gwErr.StatusCode)
	})

	t.Run("missing credentials rejected at construction", func(t *testing.T) {
		_, err := NewRESTGateway("", "", "")
		assert.ErrorIs(t, err, ErrGatewayNotConfigured)
	})
}
