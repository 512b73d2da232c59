package clients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jwhande57/zimutilityxpress/internal/domain/models"
	"github.com/jwhande57/zimutilityxpress/internal/infrastructure/http/clients"
	"github.com/jwhande57/zimutilityxpress/pkg/config"
)

func upstreamConfig(baseURL string) config.UpstreamConfig {
	return config.UpstreamConfig{
		BaseURL:          baseURL,
		Timeout:          5,
		MaxRetries:       1,
		RetryBackoffBase: 1,
	}
}

func TestStockClientFetchAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/check-stock/47", r.URL.Path)
		json.NewEncoder(w).Encode(models.StockResponse{
			Stock: []models.StockItem{
				{ProductID: 47, ProductCode: "SB1", Name: "SmartBiz 10GB", Amount: 10, Currency: "USD"},
				{ProductID: 47, ProductCode: "SB2", Name: "SmartBiz 25GB", Amount: 20, Currency: "USD"},
			},
		})
	}))
	defer srv.Close()

	client := clients.NewStockClient(upstreamConfig(srv.URL), zerolog.Nop())
	items, err := client.FetchAvailable(context.Background(), 47)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "SmartBiz 10GB", items[0].Name)
	require.Equal(t, 10.0, items[0].Amount)
}

func TestStockClientEmptyStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.StockResponse{Stock: []models.StockItem{}})
	}))
	defer srv.Close()

	client := clients.NewStockClient(upstreamConfig(srv.URL), zerolog.Nop())
	items, err := client.FetchAvailable(context.Background(), 45)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestStockClientPropagatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := clients.NewStockClient(upstreamConfig(srv.URL), zerolog.Nop())
	_, err := client.FetchAvailable(context.Background(), 45)
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 502")
}

func TestOrderClientSubmitOrder(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/order", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		gotKey = r.Header.Get("X-Idempotency-Key")

		var order models.OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		require.Equal(t, 10.0, order.USDAmount)
		require.Equal(t, "SB1", order.ProductCode)

		json.NewEncoder(w).Encode(models.OrderResponse{
			USDAmount:   order.USDAmount,
			Target:      order.Target,
			Txref:       "TX-0001",
			PaymentLink: "https://gateway.example/pay/TX-0001",
		})
	}))
	defer srv.Close()

	client := clients.NewOrderClient(upstreamConfig(srv.URL), zerolog.Nop())
	resp, err := client.SubmitOrder(context.Background(), "ZMP12345678ABCDEF", models.OrderRequest{
		USDAmount:   10.0,
		ProductID:   47,
		ProductCode: "SB1",
		Target:      "0771234567",
	})
	require.NoError(t, err)
	require.Equal(t, "ZMP12345678ABCDEF", gotKey)
	require.Equal(t, "TX-0001", resp.Txref)
	require.Equal(t, "https://gateway.example/pay/TX-0001", resp.PaymentLink)
	require.Equal(t, "0771234567", resp.Target)
}

func TestOrderClientExtractsBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "product out of stock"})
	}))
	defer srv.Close()

	client := clients.NewOrderClient(upstreamConfig(srv.URL), zerolog.Nop())
	_, err := client.SubmitOrder(context.Background(), "ZMP12345678ABCDEF", models.OrderRequest{USDAmount: 1})
	require.ErrorIs(t, err, clients.ErrOrderRejected)
	require.Contains(t, err.Error(), "product out of stock")
}

func TestOrderClientGenericFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := clients.NewOrderClient(upstreamConfig(srv.URL), zerolog.Nop())
	_, err := client.SubmitOrder(context.Background(), "ZMP12345678ABCDEF", models.OrderRequest{USDAmount: 1})
	require.ErrorIs(t, err, clients.ErrOrderRejected)
	require.Contains(t, err.Error(), "failed to initialize payment")
}

func TestOrderClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(models.OrderResponse{Txref: "TX-0002", PaymentLink: "https://gateway.example/pay/TX-0002"})
	}))
	defer srv.Close()

	cfg := upstreamConfig(srv.URL)
	cfg.RetryBackoffBase = 0
	client := clients.NewOrderClient(cfg, zerolog.Nop())
	resp, err := client.SubmitOrder(context.Background(), "ZMP12345678ABCDEF", models.OrderRequest{USDAmount: 1})
	require.NoError(t, err)
	require.Equal(t, 2, attempts)
	require.Equal(t, "TX-0002", resp.Txref)
}

func TestRechargeClientProcessRecharge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/recharge", r.URL.Path)

		var recharge models.RechargeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&recharge))
		require.Equal(t, "0771234567", recharge.PhoneNumber)

		json.NewEncoder(w).Encode(models.RechargeResponse{
			Success:    true,
			RechargeID: "RCH100",
			Message:    "Recharge processed successfully",
		})
	}))
	defer srv.Close()

	client := clients.NewRechargeClient(upstreamConfig(srv.URL), zerolog.Nop())
	resp, err := client.ProcessRecharge(context.Background(), models.RechargeRequest{
		PhoneNumber: "0771234567",
		Amount:      1.0,
		ServiceType: "Econet Airtime",
		Reference:   "ZMP12345678ABCDEF",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "RCH100", resp.RechargeID)
}
