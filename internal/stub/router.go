package stub

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"redstore/internal/domain"
)

const userKey = "stub.user"

// buildRouter wires the storefront backend contract.
func buildRouter(logger *log.Logger, store *Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/auth/signup", signupHandler(store))
	router.POST("/auth/login", loginHandler(store))
	router.GET("/auth/me", requireAuth(store), meHandler)

	router.GET("/products", listProductsHandler(store))
	router.GET("/products/:id", getProductHandler(store))

	admin := router.Group("/products", requireAuth(store), requireAdmin)
	admin.POST("", createProductHandler(store))
	admin.PUT("/:id", updateProductHandler(store))
	admin.DELETE("/:id", deleteProductHandler(store))

	cart := router.Group("/cart", requireAuth(store))
	cart.GET("", getCartHandler(store))
	cart.GET("/count", cartCountHandler(store))
	cart.POST("/add", addToCartHandler(store))
	cart.PATCH("/items/:id/decrease", decreaseItemHandler(store))
	cart.DELETE("/items/:id", removeItemHandler(store))
	cart.POST("/checkout", checkoutHandler(store))

	return router
}

func requireAuth(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		user, ok := store.UserByToken(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func requireAdmin(c *gin.Context) {
	user := currentUser(c)
	if user.Role != domain.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
	}
}

func currentUser(c *gin.Context) domain.User {
	v, _ := c.Get(userKey)
	user, _ := v.(domain.User)
	return user
}

// writeStoreError maps store errors onto contract status codes.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// --- auth handlers ---

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func signupHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, token, err := store.SignupUser(req.Email, req.Password, req.FirstName, req.LastName, domain.RoleCustomer)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, token, err := store.Authenticate(req.Email, req.Password)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// --- catalog handlers ---

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
}

func (r productRequest) toProduct() domain.Product {
	return domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
	}
}

func listProductsHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Products())
	}
}

func getProductHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := store.Product(c.Param("id"))
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createProductHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := store.CreateProduct(req.toProduct())
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p, err := store.UpdateProduct(c.Param("id"), req.toProduct())
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteProduct(c.Param("id")); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- cart handlers ---

func getCartHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, store.Cart(currentUser(c).ID))
	}
}

func cartCountHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"count": store.CartCount(currentUser(c).ID)})
	}
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func addToCartHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := store.AddToCart(currentUser(c).ID, req.ProductID, req.Quantity); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func decreaseItemHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DecreaseItem(currentUser(c).ID, c.Param("id")); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func removeItemHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.RemoveItem(currentUser(c).ID, c.Param("id")); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func checkoutHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.CheckoutCart(currentUser(c).ID); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
