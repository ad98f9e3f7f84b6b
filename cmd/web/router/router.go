package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"space-traveling/cmd/internal/notify"
	"space-traveling/cmd/web/handlers"
	"space-traveling/cmd/web/middleware"
	"space-traveling/cmd/web/services"
	"space-traveling/cmd/web/views"
	_ "space-traveling/docs"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Store          services.ContentStore
	DocumentType   string
	PageSize       int
	ResolveTimeout time.Duration
	Location       *time.Location
	Notifier       notify.Notifier
}

func New(deps Deps) (*gin.Engine, error) {
	tmpl, err := views.Templates(deps.Location)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestTrace(), middleware.Recovery())
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(views.Static()))

	listing := services.NewListingService(deps.Store, deps.DocumentType, deps.PageSize)
	neighbors := services.NewNeighborService(deps.Store, deps.DocumentType)
	posts := services.NewPostService(deps.Store, deps.DocumentType, neighbors)
	resolver := services.NewPostResolver(posts, deps.ResolveTimeout)

	r.GET("/health", handlers.HealthHandler(deps.Store))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/", handlers.HomePageHandler(listing, deps.Location.String()))
	r.GET("/post/:slug", handlers.PostPageHandler(resolver))

	api := r.Group("/api/v1")
	{
		api.GET("/posts", handlers.ListPostsHandler(listing, deps.Notifier))
		api.GET("/posts/:slug", handlers.GetPostHandler(posts))
		api.GET("/posts/:slug/neighbors", handlers.GetNeighborsHandler(posts))
	}

	return r, nil
}
