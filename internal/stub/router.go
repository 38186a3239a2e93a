package stub

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Its-donkey/channel-panel/logging"
)

// RouterOptions configures the HTTP surface.
type RouterOptions struct {
	// Integrations lists the accepted integration names. Empty means "twitch".
	Integrations []string
	// Token, when set, must be presented as a bearer token.
	Token string
	// Delay is added before every response.
	Delay  time.Duration
	Logger *logging.Logger
}

type handler struct {
	store *Store
}

// NewRouter serves store under /:integration/{channel,channel/:identity,catalog/top}.
func NewRouter(store *Store, opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if len(opts.Integrations) == 0 {
		opts.Integrations = []string{"twitch"}
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.NewHTTPLogger(opts.Logger, 0).Middleware())
	r.NoRoute(func(c *gin.Context) {
		abort(c, http.StatusNotFound, "no such resource")
	})

	h := &handler{store: store}
	g := r.Group("/:integration", knownIntegration(opts.Integrations), bearer(opts.Token), delay(opts.Delay))
	g.GET("/channel", h.getChannel)
	g.PUT("/channel/:identity", h.putChannel)
	g.GET("/catalog/top", h.topCatalog)

	opts.Logger.Info("stub", "routes registered", map[string]any{"integrations": opts.Integrations})
	return r
}

func (h *handler) getChannel(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Channel())
}

func (h *handler) putChannel(c *gin.Context) {
	var request struct {
		Title    string `json:"title"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	channel, err := h.store.Update(c.Param("identity"), request.Title, request.Category)
	switch {
	case errors.Is(err, ErrForbidden):
		abort(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEmptyTitle):
		abort(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnknownCategory):
		abort(c, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "update failed")
	default:
		c.JSON(http.StatusOK, channel)
	}
}

func (h *handler) topCatalog(c *gin.Context) {
	first, _ := strconv.Atoi(c.Query("first"))
	page, err := h.store.Page(c.Query("after"), first)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, page)
}

func knownIntegration(names []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(names, c.Param("integration")) {
			abort(c, http.StatusNotFound, "unknown integration "+strconv.Quote(c.Param("integration")))
			return
		}
		c.Next()
	}
}

func bearer(token string) gin.HandlerFunc {
	expected := "Bearer " + token
	return func(c *gin.Context) {
		if token != "" && c.GetHeader("Authorization") != expected {
			abort(c, http.StatusUnauthorized, "invalid bearer token")
			return
		}
		c.Next()
	}
}

func delay(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d > 0 {
			select {
			case <-time.After(d):
			case <-c.Request.Context().Done():
				c.AbortWithStatus(http.StatusServiceUnavailable)
				return
			}
		}
		c.Next()
	}
}

// abort writes the error shape the gateway clients expect.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status), "message": message})
}
