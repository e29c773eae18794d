package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mavericklabs/sparks-files/internal/services/catalog"
)

type ProductsController struct {
	catalog *catalog.Catalog
}

func NewProductsController(c *catalog.Catalog) *ProductsController {
	return &ProductsController{catalog: c}
}

func (c *ProductsController) ListProducts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.Query("page"))
	perPage, _ := strconv.Atoi(ctx.Query("perPage"))

	result := c.catalog.Find(catalog.Query{
		Search:  ctx.Query("search"),
		Status:  ctx.Query("status"),
		Tag:     ctx.Query("tag"),
		Page:    page,
		PerPage: perPage,
	})

	ctx.JSON(http.StatusOK, result)
}

func (c *ProductsController) ListFilters(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"statuses": c.catalog.Statuses(),
		"tags":     c.catalog.Tags(),
	})
}
