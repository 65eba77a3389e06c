package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/printly/storefront/pkg/errors"
	"github.com/printly/storefront/pkg/httpclient"
	"github.com/printly/storefront/pkg/pagination"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, httpclient.New(httpclient.SingleAttemptConfig()))
}

func TestCreate(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var p Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "buyer@example.com", p.BuyerEmail)
		assert.Equal(t, []string{"p1", "p2"}, p.Products)
		assert.Equal(t, StatusPending, p.Status)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Order{
			ID:         "o1",
			BuyerEmail: p.BuyerEmail,
			Products:   p.Products,
			Status:     p.Status,
		})
	}))
	defer srv.Close()

	order, err := newTestClient(srv.URL).Create(context.Background(), Payload{
		BuyerEmail: "buyer@example.com",
		Products:   []string{"p1", "p2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreate_ForcesPendingStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, StatusPending, p.Status)
		_ = json.NewEncoder(w).Encode(Order{ID: "o1", Status: p.Status})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Create(context.Background(), Payload{
		BuyerEmail: "buyer@example.com",
		Products:   []string{"p1"},
		Status:     StatusCompleted, // must be overridden
	})
	require.NoError(t, err)
}

func TestCreate_UpstreamFailureSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"code":"DB_DOWN","message":"storage unavailable"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Create(context.Background(), Payload{
		BuyerEmail: "buyer@example.com",
		Products:   []string{"p1"},
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "order creation must never be retried")
}

func TestCreate_BadRequestMapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"INVALID_INPUT","message":"buyerEmail required"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Create(context.Background(), Payload{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("offset"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))

		_ = json.NewEncoder(w).Encode([]Order{
			{ID: "o1", Status: StatusPending},
			{ID: "o2", Status: StatusCompleted},
		})
	}))
	defer srv.Close()

	list, err := newTestClient(srv.URL).List(context.Background(), pagination.Params{
		Page: 2, PerPage: 10, Offset: 10,
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o1", list[0].ID)
}
