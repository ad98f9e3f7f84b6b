package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"space-traveling/cmd/web/services"
)

// loadingRefreshSeconds is how often the loading page retries.
const loadingRefreshSeconds = 1

// HomePageHandler renders the first listing page.
func HomePageHandler(svc *services.ListingService, timezone string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.FetchInitial(c.Request.Context())
		if err != nil {
			status, _ := statusFor(err)
			_ = c.Error(err)
			c.HTML(status, "error.tmpl", gin.H{"Message": "Tente novamente em instantes."})
			return
		}
		next := ""
		if page.NextPage != nil {
			next = *page.NextPage
		}
		c.HTML(http.StatusOK, "home.tmpl", gin.H{
			"Page":       page,
			"NextCursor": next,
			"Timezone":   timezone,
		})
	}
}

// PostPageHandler renders a post, a self-refreshing loading page while the
// post cannot be assembled in time, or a 404 page.
func PostPageHandler(resolver *services.PostResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := resolver.Resolve(c.Request.Context(), c.Param("slug"))
		if err != nil {
			status, _ := statusFor(err)
			_ = c.Error(err)
			c.HTML(status, "error.tmpl", gin.H{"Message": "Tente novamente em instantes."})
			return
		}

		switch res.State {
		case services.StateFound:
			c.HTML(http.StatusOK, "post.tmpl", gin.H{"Post": res.Post})
		case services.StateNotFound:
			c.HTML(http.StatusNotFound, "notfound.tmpl", nil)
		default:
			c.Header("Cache-Control", "no-store")
			c.HTML(http.StatusOK, "loading.tmpl", gin.H{"RefreshSeconds": loadingRefreshSeconds})
		}
	}
}
