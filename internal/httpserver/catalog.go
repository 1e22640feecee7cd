package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/domain"
	catalogsvc "bookstore/internal/service/catalog"
)

func listCategoriesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := deps.CatalogSvc.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if categories == nil {
			categories = []domain.Category{}
		}
		c.JSON(http.StatusOK, categories)
	}
}

func getCategoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := deps.CatalogSvc.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func listProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := catalogsvc.ListInput{
			CategoryID: c.Query("category"),
			Search:     c.Query("search"),
			Sort:       c.Query("sort"),
		}
		if raw := c.Query("price_min"); raw != "" {
			cents, err := domain.ParseCents(raw)
			if err != nil {
				respondError(c, domain.Validationf("invalid price_min %q", raw))
				return
			}
			in.PriceMinCents = &cents
		}
		if raw := c.Query("price_max"); raw != "" {
			cents, err := domain.ParseCents(raw)
			if err != nil {
				respondError(c, domain.Validationf("invalid price_max %q", raw))
				return
			}
			in.PriceMaxCents = &cents
		}

		products, err := deps.CatalogSvc.ListProducts(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := deps.CatalogSvc.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
