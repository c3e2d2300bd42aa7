package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mephub/mephub/internal/directory"
	"github.com/mephub/mephub/internal/models"
)

// listingError translates directory service errors into HTTP responses
func listingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	case errors.Is(err, directory.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Slug already in use"})
	case errors.Is(err, directory.ErrNameRequired), errors.Is(err, directory.ErrEmptySlug):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// listHandler serves GET /{category}. The admin variant includes unpublished
// rows so draft listings can be managed before they go live.
func listHandler[T any](s *Server, includeUnpublished bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := directory.List[T](c.Request.Context(), s.directoryService, directory.ListParams{
			Query:              c.Query("q"),
			IncludeUnpublished: includeUnpublished,
		})
		if err != nil {
			s.logger.Error().Err(err).Str("path", c.FullPath()).Msg("Failed to list records")
			listingError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

// getHandler serves GET /{category}/:id where :id is a ULID or slug
func getHandler[T any](s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := directory.Get[T](c.Request.Context(), s.directoryService, c.Param("id"))
		if err != nil {
			if !errors.Is(err, directory.ErrNotFound) {
				s.logger.Error().Err(err).Str("path", c.FullPath()).Msg("Failed to load record")
			}
			listingError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

// createHandler serves POST /admin/{category}
func createHandler[T any, PT interface {
	directory.Entity
	*T
}](s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		record := PT(new(T))
		if err := c.ShouldBindJSON(record); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		if err := directory.Create[T](c.Request.Context(), s.directoryService, record); err != nil {
			listingError(c, err)
			return
		}

		s.enqueueSitemapRefresh()
		c.JSON(http.StatusCreated, record)
	}
}

// updateHandler serves PUT /admin/{category}/:id
func updateHandler[T any, PT interface {
	directory.Entity
	*T
}](s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		record := PT(new(T))
		if err := c.ShouldBindJSON(record); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
			return
		}

		updated, err := directory.Update[T](c.Request.Context(), s.directoryService, c.Param("id"), record)
		if err != nil {
			listingError(c, err)
			return
		}

		s.enqueueSitemapRefresh()
		c.JSON(http.StatusOK, updated)
	}
}

// deleteHandler serves DELETE /admin/{category}/:id
func deleteHandler[T any](s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := directory.Delete[T](c.Request.Context(), s.directoryService, c.Param("id")); err != nil {
			listingError(c, err)
			return
		}

		s.enqueueSitemapRefresh()
		c.Status(http.StatusNoContent)
	}
}

// registerCategoryRoutes wires the public read routes and admin CRUD routes
// for one directory category
func registerCategoryRoutes[T any, PT interface {
	directory.Entity
	*T
}](s *Server, public, admin *gin.RouterGroup, category directory.Category) {
	path := "/" + string(category)

	public.GET(path, listHandler[T](s, false))
	public.GET(path+"/:id", getHandler[T](s))

	admin.GET(path, listHandler[T](s, true))
	admin.POST(path, createHandler[T, PT](s))
	admin.PUT(path+"/:id", updateHandler[T, PT](s))
	admin.DELETE(path+"/:id", deleteHandler[T](s))
}

// registerDirectoryRoutes registers all categories on the public and admin
// route groups
func (s *Server) registerDirectoryRoutes(public, admin *gin.RouterGroup) {
	registerCategoryRoutes[models.Project, *models.Project](s, public, admin, directory.CategoryProjects)
	registerCategoryRoutes[models.Consultant, *models.Consultant](s, public, admin, directory.CategoryConsultants)
	registerCategoryRoutes[models.Contractor, *models.Contractor](s, public, admin, directory.CategoryContractors)
	registerCategoryRoutes[models.Supplier, *models.Supplier](s, public, admin, directory.CategoryAgents)
	registerCategoryRoutes[models.Director, *models.Director](s, public, admin, directory.CategoryDirectors)
	registerCategoryRoutes[models.Lecturer, *models.Lecturer](s, public, admin, directory.CategoryLecturers)
	registerCategoryRoutes[models.Institution, *models.Institution](s, public, admin, directory.CategoryInstitutions)
	registerCategoryRoutes[models.Vacancy, *models.Vacancy](s, public, admin, directory.CategoryVacancies)
	registerCategoryRoutes[models.Jobseeker, *models.Jobseeker](s, public, admin, directory.CategoryJobseekers)
}
