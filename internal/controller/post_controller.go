package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/klass-lk/blog"
	"github.com/klass-lk/blog/internal/repository"
	"github.com/klass-lk/blog/internal/service"
)

var offered = []string{binding.MIMEHTML, binding.MIMEJSON}

type PostController struct {
	postService *service.PostService
}

func NewPostController(postService *service.PostService) *PostController {
	return &PostController{
		postService: postService,
	}
}

func (c *PostController) Routes() []blog.Route {
	return []blog.Route{
		{Method: http.MethodGet, Path: "/", Handler: blog.Handle(c.PostList)},
		{Method: http.MethodGet, Path: "/post/:id", Handler: blog.Handle(c.PostDetail)},
	}
}

// PostList renders post_list.html with {"posts": [...]}, or the same payload
// as JSON when the client asks for it.
func (c *PostController) PostList(ctx *blog.Context) {
	posts, err := c.postService.ListPublished(ctx.Request.Context())
	if err != nil {
		c.sendError(ctx, err)
		return
	}

	ctx.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  offered,
		HTMLName: "post_list.html",
		Data:     gin.H{"posts": posts},
	})
}

// PostDetail renders post_detail.html with {"post": {...}}. Unknown ids get a
// 404.
func (c *PostController) PostDetail(ctx *blog.Context) {
	post, err := c.postService.GetPost(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.sendError(ctx, err)
		return
	}

	ctx.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  offered,
		HTMLName: "post_detail.html",
		Data:     gin.H{"post": post},
	})
}

// sendError always answers with the error status. Clients accepting neither
// HTML nor JSON get the HTML page rather than a 406.
func (c *PostController) sendError(ctx *blog.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		err = blog.NotFound.New("post")
	} else {
		ctx.Logger().Error("post store failure", "error", err)
		_ = ctx.Error(err)
	}

	if ctx.NegotiateFormat(offered...) == binding.MIMEJSON {
		ctx.SendError(err)
		return
	}

	apiErr := blog.AsApiError(err)
	ctx.HTML(apiErr.StatusCode(), "error.html", gin.H{
		"status":  apiErr.StatusCode(),
		"message": apiErr.Message,
	})
	ctx.Abort()
}
