package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/sabaispa/sabai/internal/catalog/domain"
	"github.com/sabaispa/sabai/pkg/i18n"
)

type createTreatmentRequest struct {
	Name            i18n.Text `json:"name"`
	Description     i18n.Text `json:"description"`
	Price           int64     `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
}

func (s *Server) CreateTreatment(c *gin.Context) {
	var req createTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateTreatment(c.Request.Context(), catalogdomain.CreateTreatmentRequest{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTreatment(c *gin.Context) {
	resp, err := s.catalogSvc.GetTreatment(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTreatments(c *gin.Context) {
	req, err := bindCatalogListRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.ListTreatments(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createAddonRequest struct {
	Name  i18n.Text `json:"name"`
	Price int64     `json:"price"`
}

func (s *Server) CreateAddon(c *gin.Context) {
	var req createAddonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateAddon(c.Request.Context(), catalogdomain.CreateAddonRequest{
		TreatmentID: strings.TrimSpace(c.Param("id")),
		Name:        req.Name,
		Price:       req.Price,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAddons(c *gin.Context) {
	resp, err := s.catalogSvc.ListAddons(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createProductRequest struct {
	Name  i18n.Text `json:"name"`
	Price int64     `json:"price"`
	Stock int64     `json:"stock"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.CreateProduct(c.Request.Context(), catalogdomain.CreateProductRequest{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProduct(c *gin.Context) {
	resp, err := s.catalogSvc.GetProduct(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	req, err := bindCatalogListRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.ListProducts(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func bindCatalogListRequest(c *gin.Context) (catalogdomain.ListRequest, error) {
	var query struct {
		Page     int    `form:"page"`
		PageSize int    `form:"page_size"`
		Slug     string `form:"slug"`
		Active   string `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		return catalogdomain.ListRequest{}, invalidRequestError()
	}

	activeOnly := strings.EqualFold(strings.TrimSpace(query.Active), "true")
	return catalogdomain.ListRequest{
		Page:       query.Page,
		PageSize:   query.PageSize,
		Slug:       strings.TrimSpace(query.Slug),
		ActiveOnly: activeOnly,
	}, nil
}
