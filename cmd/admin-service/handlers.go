package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/MikeMC777/ordenes-mesa/internal/audit"
	"github.com/MikeMC777/ordenes-mesa/internal/auth"
	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
	"github.com/MikeMC777/ordenes-mesa/internal/httpx"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
	"github.com/MikeMC777/ordenes-mesa/internal/order"
	"github.com/MikeMC777/ordenes-mesa/internal/report"
	"github.com/MikeMC777/ordenes-mesa/internal/seed"
)

const serviceName = "admin-service"

type app struct {
	store  kv.Store
	gate   *auth.Gate
	foods  *catalog.Manager
	orders *order.Service
	audit  audit.Recorder
	seed   seed.Options
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// LoginRequest is the admin login form.
// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"1234"`
}

// LoginResponse carries the bearer token for the admin routes.
// swagger:model LoginResponse
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
}

// SalesResponse is the sales series and its chart split.
// swagger:model SalesResponse
type SalesResponse struct {
	Points []report.Point `json:"points"`
	Chart  report.Chart   `json:"chart"`
}

func routes(r *gin.Engine, a *app, tokenTTL time.Duration) {
	g := r.Group("/admin")
	g.POST("/login", loginHandler(a, tokenTTL))
	g.POST("/reset", resetHandler(a))

	p := g.Group("", httpx.RequireAdmin(a.gate))
	p.POST("/logout", logoutHandler(a))
	p.GET("/dashboard", dashboardHandler(a))
	p.GET("/orders", ordersHandler(a))
	p.DELETE("/orders", clearOrdersHandler(a))
	p.GET("/sales", salesHandler(a))
	p.GET("/foods", listFoodsHandler(a))
	p.POST("/foods", createFoodHandler(a))
	p.PUT("/foods/:id", updateFoodHandler(a))
	p.DELETE("/foods/:id", deleteFoodHandler(a))
	p.GET("/audit", auditHandler(a))
}

// POST /admin/login
func loginHandler(a *app, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		ctx := c.Request.Context()
		if _, err := seed.Ensure(ctx, a.store, a.seed); err != nil {
			httpx.Fail(c, err)
			return
		}

		token, err := a.gate.Login(ctx, req.Username, req.Password)
		if err != nil {
			a.logger.Info("admin login rejected", zap.String("username", req.Username))
			httpx.Fail(c, err)
			return
		}
		a.record(c, audit.ActionLogin, req.Username, nil)
		c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresIn: int64(ttl.Seconds()), IssuedAt: a.now().UTC()})
	}
}

// POST /admin/reset
func resetHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.gate.ResetCredential(c.Request.Context()); err != nil {
			httpx.Fail(c, err)
			return
		}
		a.record(c, audit.ActionReset, auth.CredentialKey, nil)
		c.Status(http.StatusNoContent)
	}
}

// POST /admin/logout
func logoutHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.gate.Logout(c.Request.Context()); err != nil {
			httpx.Fail(c, err)
			return
		}
		a.record(c, audit.ActionLogout, auth.LoggedInKey, nil)
		c.Status(http.StatusNoContent)
	}
}

// GET /admin/dashboard
func dashboardHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := a.orders.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, report.Build(orders, a.today(), a.loc))
	}
}

// GET /admin/orders
func ordersHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := a.orders.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, report.Rows(orders, a.loc))
	}
}

// DELETE /admin/orders?confirm=true
func clearOrdersHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.orders.Clear(c.Request.Context(), confirmed(c)); err != nil {
			httpx.Fail(c, err)
			return
		}
		a.record(c, audit.ActionOrdersClear, order.LogKey, nil)
		c.Status(http.StatusNoContent)
	}
}

// GET /admin/sales
func salesHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := a.orders.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		points := report.SalesSeries(orders)
		c.JSON(http.StatusOK, SalesResponse{Points: points, Chart: report.ChartData(points)})
	}
}

// GET /admin/foods
func listFoodsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		foods, err := a.foods.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, foods)
	}
}

// POST /admin/foods
func createFoodHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.FoodInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		item, err := a.foods.Add(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		a.record(c, audit.ActionFoodAdd, item.ID, bson.M{"name": item.Name, "price": item.Price.String()})
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /admin/foods/:id
// An unknown id answers 204 and changes nothing.
func updateFoodHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.FoodInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		id := c.Param("id")
		item, found, err := a.foods.Update(c.Request.Context(), id, in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		if !found {
			c.Status(http.StatusNoContent)
			return
		}
		a.record(c, audit.ActionFoodUpdate, item.ID, bson.M{"name": item.Name, "price": item.Price.String()})
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /admin/foods/:id?confirm=true
func deleteFoodHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := a.foods.Delete(c.Request.Context(), id, confirmed(c)); err != nil {
			httpx.Fail(c, err)
			return
		}
		a.record(c, audit.ActionFoodDelete, id, nil)
		c.Status(http.StatusNoContent)
	}
}

// GET /admin/audit?entity_id=&limit=
func auditHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
		entries, err := a.audit.List(c.Request.Context(), c.Query("entity_id"), limit)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// today is the order-date key for "now", matching how orders are dated.
func (a *app) today() string {
	return a.now().UTC().Format(order.DateLayout)
}

// record writes an audit entry. Failures are logged, never returned.
func (a *app) record(c *gin.Context, action, entityID string, data bson.M) {
	e := &audit.Entry{Service: serviceName, Action: action, EntityID: entityID, Data: data}
	if err := a.audit.Record(c.Request.Context(), e); err != nil {
		a.logger.Warn("audit record failed", zap.String("action", action), zap.Error(err))
	}
}
