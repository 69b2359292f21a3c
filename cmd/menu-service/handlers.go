package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/ordenes-mesa/internal/catalog"
	"github.com/MikeMC777/ordenes-mesa/internal/httpx"
	"github.com/MikeMC777/ordenes-mesa/internal/kv"
	"github.com/MikeMC777/ordenes-mesa/internal/menu"
	"github.com/MikeMC777/ordenes-mesa/internal/order"
	"github.com/MikeMC777/ordenes-mesa/internal/seed"
)

type app struct {
	store    kv.Store
	foods    *catalog.Manager
	sessions *menu.Registry
	orders   *order.Service
	seed     seed.Options
	logger   *zap.Logger
}

// SessionResponse is returned when a table opens its menu.
// swagger:model SessionResponse
type SessionResponse struct {
	ID    string `json:"id"`
	Table string `json:"table"`
}

// FilterRequest sets the category chip and the search box.
// swagger:model FilterRequest
type FilterRequest struct {
	Category string `json:"category" example:"Drink"`
	Search   string `json:"search"   example:"cof"`
}

// KitchenRequest is the free-text note for the kitchen.
// swagger:model KitchenRequest
type KitchenRequest struct {
	Request string `json:"request" example:"no onion please"`
}

func routes(r *gin.Engine, a *app) {
	g := r.Group("/sessions")
	g.POST("", createSessionHandler(a))
	g.DELETE("/:sid", closeSessionHandler(a))
	g.GET("/:sid/menu", menuHandler(a))
	g.PUT("/:sid/filter", filterHandler(a))
	g.PUT("/:sid/request", requestHandler(a))
	g.POST("/:sid/cart/:foodId/increase", cartHandler(a, increase))
	g.POST("/:sid/cart/:foodId/decrease", cartHandler(a, decrease))
	g.DELETE("/:sid/cart/:foodId", cartHandler(a, remove))
	g.POST("/:sid/orders", submitOrderHandler(a))
}

// POST /sessions?table=N
func createSessionHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := seed.Ensure(c.Request.Context(), a.store, a.seed); err != nil {
			httpx.Fail(c, err)
			return
		}
		sess := a.sessions.Create(c.Query("table"))
		a.logger.Info("table session opened", zap.String("session", sess.ID), zap.String("table", sess.Table))
		c.JSON(http.StatusCreated, SessionResponse{ID: sess.ID, Table: sess.Table})
	}
}

// DELETE /sessions/:sid
func closeSessionHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.sessions.Delete(c.Param("sid")) {
			httpx.Fail(c, menu.ErrSessionNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GET /sessions/:sid/menu?category=&q=
// Query params, when present, replace the stored filter.
func menuHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		withView(c, a, func(s *menu.Session, _ catalog.Foods) {
			category, catSet := c.GetQuery("category")
			search, qSet := c.GetQuery("q")
			if !catSet {
				category = s.Category
			}
			if !qSet {
				search = s.Search
			}
			if catSet || qSet {
				s.SetFilter(category, search)
			}
		})
	}
}

// PUT /sessions/:sid/filter
func filterHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FilterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		withView(c, a, func(s *menu.Session, _ catalog.Foods) {
			s.SetFilter(req.Category, req.Search)
		})
	}
}

// PUT /sessions/:sid/request
func requestHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req KitchenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}
		err := a.sessions.With(c.Param("sid"), func(s *menu.Session) error {
			s.Request = req.Request
			return nil
		})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func increase(s *menu.Session, foods catalog.Foods, id string) { s.Cart.Increase(foods, id) }
func decrease(s *menu.Session, _ catalog.Foods, id string)     { s.Cart.Decrease(id) }
func remove(s *menu.Session, _ catalog.Foods, id string)       { s.Cart.Remove(id) }

// POST /sessions/:sid/cart/:foodId/increase|decrease, DELETE /sessions/:sid/cart/:foodId
// Unknown foods leave the cart unchanged.
func cartHandler(a *app, op func(*menu.Session, catalog.Foods, string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		withView(c, a, func(s *menu.Session, foods catalog.Foods) {
			op(s, foods, c.Param("foodId"))
		})
	}
}

// POST /sessions/:sid/orders
func submitOrderHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.SubmitOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, httpx.HTTPError{Error: "invalid json"})
			return
		}

		var placed order.Order
		err := a.sessions.With(c.Param("sid"), func(s *menu.Session) error {
			if req.Request != nil {
				s.Request = *req.Request
			}
			o, err := a.orders.SubmitSession(c.Request.Context(), s)
			placed = o
			return err
		})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		a.logger.Info("order placed",
			zap.String("order_id", placed.ID),
			zap.String("table", placed.Table),
			zap.String("total", placed.Total.StringFixed(2)))
		c.JSON(http.StatusCreated, placed)
	}
}

// withView loads the catalog, runs mutate under the session lock and answers
// with the rebuilt menu view.
func withView(c *gin.Context, a *app, mutate func(*menu.Session, catalog.Foods)) {
	foods, err := a.foods.List(c.Request.Context())
	if err != nil {
		httpx.Fail(c, err)
		return
	}

	var view menu.View
	err = a.sessions.With(c.Param("sid"), func(s *menu.Session) error {
		mutate(s, foods)
		view = menu.BuildView(s, foods)
		return nil
	})
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
