package api

import (
	"net/http"

	_ "github.com/AlexZinkM/wallet-connect/docs"
	"github.com/AlexZinkM/wallet-connect/internal/handler"
	"github.com/AlexZinkM/wallet-connect/internal/metrics"
	"github.com/AlexZinkM/wallet-connect/internal/middleware"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Deps are the handlers and middleware the router wires together
type Deps struct {
	Wallet     *handler.WalletHandler
	Handshakes *handler.HandshakeHandler
	Metrics    *metrics.Metrics
	// Limiter guards the endpoints that open sessions, nil disables it
	Limiter *middleware.RateLimiter
	// PublicURL is the wallet's own origin; browser requests from anywhere
	// else are refused on the wallet and approval routes
	PublicURL string
}

// SetupRouter sets up router with handlers
func SetupRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("GET /healthz", handler.Health)
	mux.Handle("GET /metrics", deps.Metrics.Handler())

	own := middleware.SameOrigin(deps.PublicURL)

	// Wallet shell
	mux.Handle("POST /wallet", own(http.HandlerFunc(deps.Wallet.Create)))
	mux.Handle("GET /wallet", own(http.HandlerFunc(deps.Wallet.Get)))
	mux.Handle("DELETE /wallet", own(http.HandlerFunc(deps.Wallet.Delete)))
	mux.Handle("GET /wallet/secret", own(http.HandlerFunc(deps.Wallet.ExportSecret)))
	mux.Handle("GET /wallet/balance", own(http.HandlerFunc(deps.Wallet.Balance)))
	mux.Handle("GET /wallet/tokens", own(http.HandlerFunc(deps.Wallet.Tokens)))
	mux.Handle("POST /wallet/transfer", own(http.HandlerFunc(deps.Wallet.Transfer)))

	// Openers
	limit := func(h http.HandlerFunc) http.Handler {
		if deps.Limiter == nil {
			return h
		}
		return deps.Limiter.Limit(h)
	}
	mux.Handle("POST /connect", limit(deps.Handshakes.OpenConnect))
	mux.Handle("POST /sign", limit(deps.Handshakes.OpenSign))
	mux.Handle("PUT /pending-payload", limit(deps.Handshakes.PutPendingPayload))
	mux.Handle("PUT /dapp-details", limit(deps.Handshakes.PutDappDetails))
	mux.Handle("POST /handshakes/{id}/messages", limit(deps.Handshakes.PostMessage))
	mux.HandleFunc("GET /handshakes/{id}/channel", deps.Handshakes.Channel)

	// Approval popup, also gated by the session's approval token
	mux.Handle("GET /handshakes/{id}", own(http.HandlerFunc(deps.Handshakes.View)))
	mux.Handle("DELETE /handshakes/{id}", own(http.HandlerFunc(deps.Handshakes.Close)))
	mux.Handle("POST /handshakes/{id}/approve", own(http.HandlerFunc(deps.Handshakes.Approve)))
	mux.Handle("POST /handshakes/{id}/cancel", own(http.HandlerFunc(deps.Handshakes.Cancel)))

	return middleware.RequestID(middleware.Observe(deps.Metrics)(mux))
}
