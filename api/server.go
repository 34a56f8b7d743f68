package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/bookcircle/circulation/core"
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/circulationstats"
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/itemhistory"
	"github.com/AntonStoeckl/bookcircle/circulation/features/query/itemoverview"
	"github.com/AntonStoeckl/bookcircle/circulation/membership"
	"github.com/AntonStoeckl/bookcircle/circulation/shell"
)

const (
	logMsgRequestHandled = "http request handled"
	logAttrMethod        = "method"
	logAttrPath          = "path"
	logAttrStatus        = "status"
	logAttrDurationMS    = "duration_ms"
	logAttrError         = "error"

	defaultAdminLogLimit = 50
	maxAdminLogLimit     = 500
)

// Membership is the membership use cases the API exposes. membership.Service implements it.
type Membership interface {
	Register(ctx context.Context, registration membership.Registration) (core.Member, error)
	Approve(ctx context.Context, adminID, memberID uuid.UUID, at time.Time) (core.Member, error)
	Reject(ctx context.Context, adminID, memberID uuid.UUID, at time.Time) (core.Member, error)
	Block(ctx context.Context, adminID, memberID uuid.UUID, at time.Time) (core.Member, error)
	Promote(ctx context.Context, adminID, memberID uuid.UUID, at time.Time) (core.Member, error)
	RequireApproved(ctx context.Context, memberID core.MemberIDString) (core.Member, error)
	RequireAdmin(ctx context.Context, memberID core.MemberIDString) (core.Member, error)
	Members(ctx context.Context, status ...core.MemberStatus) ([]core.Member, error)
	AdminLog(ctx context.Context, adminID core.MemberIDString, limit int) ([]core.AdminLogEntry, error)
}

// Reviews is the review use cases the API exposes. reviews.Service implements it.
type Reviews interface {
	Add(ctx context.Context, itemID, authorID uuid.UUID, text string, at time.Time) (core.Review, error)
	List(ctx context.Context, itemID uuid.UUID) ([]core.Review, error)
	Delete(ctx context.Context, adminID uuid.UUID, reviewID string, at time.Time) error
}

// Deps are the collaborators of the router. All of them are required.
type Deps struct {
	Auth       *Authenticator
	Commands   *Dispatcher
	Membership Membership
	Reviews    Reviews
	Items      shell.ItemReader
	Overview   shell.CoreQueryHandler[itemoverview.Query, itemoverview.ItemOverview]
	History    shell.CoreQueryHandler[itemhistory.Query, itemhistory.ItemHistory]
	Stats      shell.CoreQueryHandler[circulationstats.Query, circulationstats.CirculationStats]
}

// Option configures the router.
type Option func(*server)

// WithClock sets the time source for command and admin action timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *server) {
		s.clock = clock
	}
}

// WithLogger logs every handled request at info level and failures at warn level.
func WithLogger(logger shell.Logger) Option {
	return func(s *server) {
		s.logger = logger
	}
}

type server struct {
	Deps
	clock  func() time.Time
	logger shell.Logger
}

// NewRouter builds the gin engine with all routes.
func NewRouter(deps Deps, opts ...Option) *gin.Engine {
	s := &server{Deps: deps, clock: time.Now}

	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogging())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1", s.Auth.Middleware())

	v1.POST("/members", s.register)

	approved := v1.Group("", s.requireApproved())
	approved.POST("/commands/:name", s.command)
	approved.GET("/commands", s.commandNames)
	approved.GET("/items", s.listItems)
	approved.GET("/items/:id", s.itemOverview)
	approved.GET("/items/:id/history", s.itemHistory)
	approved.GET("/items/:id/reviews", s.listReviews)
	approved.POST("/items/:id/reviews", s.addReview)
	approved.GET("/stats", s.stats)

	admin := v1.Group("", s.requireAdmin())
	admin.GET("/members", s.listMembers)
	admin.POST("/members/:id/:action", s.adminAction)
	admin.GET("/admin/log", s.adminLog)
	admin.DELETE("/reviews/:id", s.deleteReview)

	return r
}

func (s *server) requestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if s.logger == nil {
			return
		}

		args := []any{
			logAttrMethod, c.Request.Method,
			logAttrPath, c.FullPath(),
			logAttrStatus, c.Writer.Status(),
			logAttrDurationMS, float64(time.Since(start).Microseconds()) / 1000,
		}

		if err := c.Errors.Last(); err != nil {
			s.logger.Warn(logMsgRequestError, append(args, logAttrError, err.Error())...)
			return
		}

		s.logger.Info(logMsgRequestHandled, args...)
	}
}

func (s *server) requireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, _ := ActorID(c)
		if _, err := s.Membership.RequireApproved(c.Request.Context(), actorID.String()); err != nil {
			abortWithError(c, actorError(err))
			return
		}

		c.Next()
	}
}

func (s *server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, _ := ActorID(c)
		if _, err := s.Membership.RequireAdmin(c.Request.Context(), actorID.String()); err != nil {
			abortWithError(c, actorError(err))
			return
		}

		c.Next()
	}
}

func (s *server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errors.Join(ErrMalformedRequest, err))
		return
	}

	actorID, _ := ActorID(c)

	member, err := s.Membership.Register(c.Request.Context(), membership.Registration{
		MemberID:    actorID,
		DisplayName: req.DisplayName,
		Handle:      req.Handle,
		Area:        req.Area,
		OccurredAt:  s.clock(),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, memberResponse(member))
}

func (s *server) command(c *gin.Context) {
	var payload Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWithError(c, errors.Join(ErrMalformedRequest, err))
		return
	}

	name := CommandName(c.Param("name"))
	actorID, _ := ActorID(c)

	result, err := s.Commands.Dispatch(c.Request.Context(), name, actorID, payload, s.clock())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, commandResponse(name, result))
}

func (s *server) commandNames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": s.Commands.Names()})
}

// listItems returns listed items and the caller's own unlisted ones.
func (s *server) listItems(c *gin.Context) {
	items, err := s.Items.ListItems(c.Request.Context())
	if err != nil {
		abortWithError(c, shell.StorageError(err))
		return
	}

	actorID, _ := ActorID(c)
	out := make([]ItemResponse, 0, len(items))

	for _, item := range items {
		if item.IsListed() || item.OwnerID == actorID.String() {
			out = append(out, itemResponse(item))
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (s *server) itemOverview(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	overview, err := s.Overview.Handle(c.Request.Context(), itemoverview.BuildQuery(itemID))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, overviewResponse(overview))
}

func (s *server) itemHistory(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	history, err := s.History.Handle(c.Request.Context(), itemhistory.BuildQuery(itemID))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, historyResponse(history))
}

func (s *server) stats(c *gin.Context) {
	stats, err := s.Stats.Handle(c.Request.Context(), circulationstats.BuildQuery())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, statsResponse(stats))
}

func (s *server) listReviews(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	reviews, err := s.Reviews.List(c.Request.Context(), itemID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{"reviews": out})
}

func (s *server) addReview(c *gin.Context) {
	itemID, ok := pathID(c)
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, errors.Join(ErrMalformedRequest, err))
		return
	}

	actorID, _ := ActorID(c)

	review, err := s.Reviews.Add(c.Request.Context(), itemID, actorID, req.Text, s.clock())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reviewResponse(review))
}

func (s *server) deleteReview(c *gin.Context) {
	actorID, _ := ActorID(c)

	if err := s.Reviews.Delete(c.Request.Context(), actorID, c.Param("id"), s.clock()); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *server) listMembers(c *gin.Context) {
	var statuses []core.MemberStatus
	if status := c.Query("status"); status != "" {
		statuses = append(statuses, core.MemberStatus(status))
	}

	members, err := s.Membership.Members(c.Request.Context(), statuses...)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": memberResponses(members)})
}

func (s *server) adminAction(c *gin.Context) {
	memberID, ok := pathID(c)
	if !ok {
		return
	}

	var act func(ctx context.Context, adminID, memberID uuid.UUID, at time.Time) (core.Member, error)

	switch c.Param("action") {
	case "approve":
		act = s.Membership.Approve
	case "reject":
		act = s.Membership.Reject
	case "block":
		act = s.Membership.Block
	case "promote":
		act = s.Membership.Promote
	default:
		abortWithError(c, core.Reject(core.ErrInvalidInput, "unknown member action"))
		return
	}

	adminID, _ := ActorID(c)

	member, err := act(c.Request.Context(), adminID, memberID, s.clock())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, memberResponse(member))
}

func (s *server) adminLog(c *gin.Context) {
	limit := defaultAdminLogLimit

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abortWithError(c, core.Reject(core.ErrInvalidInput, "limit must be a positive number"))
			return
		}

		limit = min(parsed, maxAdminLogLimit)
	}

	adminID, _ := ActorID(c)

	entries, err := s.Membership.AdminLog(c.Request.Context(), adminID.String(), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": adminLogResponses(entries)})
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, core.Reject(core.ErrInvalidInput, "id must be a uuid"))
		return uuid.Nil, false
	}

	return id, true
}
