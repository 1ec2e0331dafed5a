package cli

import (
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/klass-lk/blog"
	"github.com/klass-lk/blog/internal/config"
	"github.com/klass-lk/blog/internal/controller"
	"github.com/klass-lk/blog/internal/render"
	"github.com/klass-lk/blog/internal/repository"
	"github.com/klass-lk/blog/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the blog server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		postRepo, closeStore, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		server, err := NewServer(cfg, postRepo)
		if err != nil {
			return err
		}

		slog.Info("starting blog", "env", cfg.Env, "runtime", server.Runtime(), "store", cfg.Store.Driver, "port", cfg.Port)
		return server.StartContext(ctx, cfg.Port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&flags.Port, "port", "p", 0, "port to listen on")
	serveCmd.Flags().StringVar(&flags.Driver, "driver", "", "post store driver (memory, mongo, postgres, pgx, dynamodb)")
}

// NewServer wires the post routes, templates and CORS onto a blog.Server.
func NewServer(cfg *config.Config, postRepo repository.PostRepository) (*blog.Server, error) {
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	server := blog.NewWithLogger(slog.Default())
	if cfg.Runtime == string(blog.RuntimeLambda) {
		server.SetRuntime(blog.RuntimeLambda)
	}

	tmpl, err := render.Templates()
	if err != nil {
		return nil, err
	}
	server.SetHTMLTemplate(tmpl)

	if len(cfg.CORSOrigins) > 0 {
		server.CustomCORS(
			cfg.CORSOrigins,
			[]string{"GET", "HEAD", "OPTIONS"},
			[]string{"Origin", "Accept", "Content-Type", blog.RequestIDHeader},
			12*time.Hour,
		)
	}

	postService := service.NewPostService(postRepo)
	server.RegisterControllers(controller.NewPostController(postService))
	return server, nil
}
