// Package httpapi exposes the storefront over HTTP/JSON. It owns routing,
// the session-cookie gate, CORS, and the mapping from service errors to
// response statuses. Business rules live in the services package.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/sessions"
)

const shutdownTimeout = 5 * time.Second

// AuthService is the account and credential surface the handlers call.
type AuthService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	Logout(ctx context.Context, token string) error
	Details(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, firstName, lastName string) error
	UpdateEmail(ctx context.Context, userID, oldEmail, newEmail string) error
	UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// CartService is the cart surface the handlers call.
type CartService interface {
	Get(ctx context.Context, userID string) (*models.CartDocument, error)
	AddItem(ctx context.Context, userID, productID string, quantity int, size string) (*models.CartDocument, error)
	RemoveItem(ctx context.Context, userID, productID, size string) (*models.CartDocument, error)
}

// AddressService is the address-book surface the handlers call.
type AddressService interface {
	List(ctx context.Context, userID string) ([]*models.Address, error)
	Add(ctx context.Context, userID string, fields json.RawMessage) (string, error)
	Remove(ctx context.Context, userID, addressID string) error
}

type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	config     *config.Config
	logger     logging.Logger

	sessions  sessions.Manager
	auth      AuthService
	cart      CartService
	addresses AddressService
}

func NewServer(cfg *config.Config, logger logging.Logger, sm sessions.Manager, auth AuthService, cart CartService, addresses AddressService) (*Server, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	s := &Server{
		router:    router,
		config:    cfg,
		logger:    logger,
		sessions:  sm,
		auth:      auth,
		cart:      cart,
		addresses: addresses,
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    cfg.EndpointAddrHTTP,
		Handler: router,
	}

	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(s.corsMiddleware())

	api := s.router.Group("/api")

	// open routes
	api.GET("/check-session", s.checkSession)
	api.POST("/login", s.login)
	api.POST("/create-account", s.createAccount)
	api.POST("/logout", s.logout)

	// session-gated routes
	gated := api.Group("", s.authRequired())
	gated.GET("/user-details", s.userDetails)
	gated.POST("/update-user-details", s.updateUserDetails)
	gated.POST("/update-email", s.updateEmail)
	gated.POST("/update-password", s.updatePassword)
	gated.GET("/cart", s.getCart)
	gated.POST("/add-to-cart", s.addToCart)
	gated.POST("/cart/delete-item", s.deleteCartItem)
	gated.GET("/user-addresses", s.listAddresses)
	gated.POST("/user-addresses", s.addAddress)
	gated.DELETE("/user-addresses/:addressId", s.deleteAddress)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
