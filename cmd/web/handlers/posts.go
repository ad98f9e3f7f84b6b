package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"space-traveling/cmd/internal/notify"
	"space-traveling/cmd/internal/trace"
	"space-traveling/cmd/web/dto"
	"space-traveling/cmd/web/services"
	"space-traveling/logger"
)

const loadMoreFailedMessage = "Não foi possível carregar mais posts."

// notifyTimeout bounds how long a failed load-more waits on the notifier
// before the toast is returned anyway.
var notifyTimeout = time.Second

// ListPostsHandler godoc
// @Summary      List posts
// @Description  First listing page, or the page a continuation cursor points to.
// @Description  A cursor page replaces the previous page; it is never appended.
// @Tags         posts
// @Param        cursor  query  string  false  "Opaque next_page cursor from a previous response"
// @Produce      json
// @Success      200  {object}  dto.PostPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.LoadMoreErrorDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.ListingService, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		cursor, loadMore := c.GetQuery("cursor")
		if !loadMore {
			page, err := svc.FetchInitial(ctx)
			if err != nil {
				status, code := statusFor(err)
				_ = c.Error(err)
				c.JSON(status, dto.ErrorResponseDTO{Error: code})
				return
			}
			c.JSON(http.StatusOK, page)
			return
		}

		page, err := svc.FetchNext(ctx, cursor)
		if err != nil {
			status, code := statusFor(err)
			_ = c.Error(err)
			if status == http.StatusBadRequest {
				c.JSON(status, dto.ErrorResponseDTO{Error: code})
				return
			}

			n := notify.New(notify.LevelError, loadMoreFailedMessage)
			nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
			nerr := notifier.Notify(nctx, n)
			cancel()
			if nerr != nil {
				logger.WarnWithFields("notify failed", logger.Fields{
					"request_id": trace.RequestIDFromContext(ctx),
					"error":      nerr.Error(),
				})
			}
			c.JSON(status, dto.LoadMoreErrorDTO{
				Error: code,
				Toast: dto.ToastDTO{ID: n.ID, Level: string(n.Level), Message: n.Message},
			})
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetPostHandler godoc
// @Summary      Get post by slug
// @Description  Fully assembled post: rendered sections, reading time, edited marker and neighbours.
// @Tags         posts
// @Param        slug  path  string  true  "Post uid"
// @Produce      json
// @Success      200  {object}  dto.PostViewDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Router       /posts/{slug} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Assemble(c.Request.Context(), c.Param("slug"))
		if err != nil {
			status, code := statusFor(err)
			_ = c.Error(err)
			c.JSON(status, dto.ErrorResponseDTO{Error: code})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// GetNeighborsHandler godoc
// @Summary      Get post neighbours
// @Description  Posts published right before and right after the given post.
// @Tags         posts
// @Param        slug  path  string  true  "Post uid"
// @Produce      json
// @Success      200  {object}  dto.NeighborsDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Router       /posts/{slug}/neighbors [get]
func GetNeighborsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Assemble(c.Request.Context(), c.Param("slug"))
		if err != nil {
			status, code := statusFor(err)
			_ = c.Error(err)
			c.JSON(status, dto.ErrorResponseDTO{Error: code})
			return
		}
		c.JSON(http.StatusOK, dto.NeighborsDTO{
			Previous: view.PreviousSuggestion,
			Next:     view.NextSuggestion,
		})
	}
}
