package webshopserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	beermapper "github.com/ipcsmmd/webshop/internal/domains/catalog/adapters/http/mapper"
	catalogdomain "github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
	catalogports "github.com/ipcsmmd/webshop/internal/domains/catalog/ports"
	apierrors "github.com/ipcsmmd/webshop/internal/shared/errors"
)

const (
	defaultPage         = 1
	defaultItemsPerPage = 10
)

// BeerAPI wires HTTP transport with the catalog service.
type BeerAPI struct {
	service catalogports.Service
}

// NewBeerAPI creates a BeerAPI backed by the provided service.
func NewBeerAPI(service catalogports.Service) BeerAPI {
	return BeerAPI{service: service}
}

type beerSearchQuery struct {
	Page         int    `form:"page" binding:"omitempty,min=1"`
	ItemsPerPage int    `form:"itemsPerPage" binding:"omitempty,min=1,max=100"`
	Ascending    *bool  `form:"ascending"`
	Field        string `form:"field" binding:"omitempty,beerfield"`
	Text         string `form:"q"`
}

func (q beerSearchQuery) filter() catalogdomain.Filter {
	filter := catalogdomain.Filter{
		CurrentPage:  q.Page,
		ItemsPerPage: q.ItemsPerPage,
		Ascending:    true,
		SearchField:  catalogdomain.Field(strings.ToLower(q.Field)),
		SearchText:   q.Text,
	}
	if filter.CurrentPage == 0 {
		filter.CurrentPage = defaultPage
	}
	if filter.ItemsPerPage == 0 {
		filter.ItemsPerPage = defaultItemsPerPage
	}
	if q.Ascending != nil {
		filter.Ascending = *q.Ascending
	}
	return filter
}

// Get /api/beers
// Lists beers, optionally restricted to a type or ordered by price.
func (api *BeerAPI) GetBeers(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		beers []*catalogdomain.Beer
		err   error
	)
	switch {
	case c.Query("type") != "":
		beerType, parseErr := beermapper.ParseType(c.Query("type"))
		if parseErr != nil {
			serviceResponder.Respond(c, apierrors.NewParameterProblem("type", parseErr.Error()))
			return
		}
		beers, err = api.service.GetBeersByType(ctx, beerType)
	case c.Query("sortByPrice") != "":
		direction := strings.ToLower(c.Query("sortByPrice"))
		if direction != "asc" && direction != "desc" {
			serviceResponder.Respond(c, apierrors.NewParameterProblem("sortByPrice", fmt.Sprintf("sortByPrice must be asc or desc, got %q", c.Query("sortByPrice"))))
			return
		}
		beers, err = api.service.GetBeersByPrice(ctx, direction == "asc")
	default:
		beers, err = api.service.GetBeers(ctx)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, beermapper.FromDomainBeers(beers))
}

// Get /api/beers/search
// Pages through beers matching a search on one field.
func (api *BeerAPI) SearchBeers(c *gin.Context) {
	var query beerSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}
	filter := query.filter()
	page, err := api.service.GetFilteredBeers(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, beermapper.FromDomainFiltered(page, filter))
}

// Post /api/beers
// Adds a beer to the catalog
func (api *BeerAPI) AddBeer(c *gin.Context) {
	beer, ok := bindBeer(c)
	if !ok {
		return
	}
	saved, err := api.service.AddBeer(c.Request.Context(), beer)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, beermapper.FromDomainBeer(saved))
}

// Get /api/beers/:beerId
func (api *BeerAPI) GetBeerByID(c *gin.Context) {
	id, ok := parseIDParam(c, "beerId")
	if !ok {
		return
	}
	beer, err := api.service.GetBeerByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, beermapper.FromDomainBeer(beer))
}

// Put /api/beers/:beerId
// The path identifier wins over any id in the body.
func (api *BeerAPI) UpdateBeer(c *gin.Context) {
	id, ok := parseIDParam(c, "beerId")
	if !ok {
		return
	}
	beer, ok := bindBeer(c)
	if !ok {
		return
	}
	beer.ID = id
	updated, err := api.service.UpdateBeer(c.Request.Context(), beer)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, beermapper.FromDomainBeer(updated))
}

// Delete /api/beers/:beerId
func (api *BeerAPI) RemoveBeer(c *gin.Context) {
	id, ok := parseIDParam(c, "beerId")
	if !ok {
		return
	}
	removed, err := api.service.RemoveBeer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, beermapper.FromDomainBeer(removed))
}

func bindBeer(c *gin.Context) (*catalogdomain.Beer, bool) {
	var payload beermapper.Beer
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return nil, false
	}
	beer, err := beermapper.ToDomainBeer(payload)
	if err != nil {
		serviceResponder.BadRequest(c, err.Error())
		return nil, false
	}
	return beer, true
}
