package blog

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Runtime string

const (
	RuntimeLambda Runtime = "lambda"
	RuntimeHTTP   Runtime = "http"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	engine     *gin.Engine
	runtime    Runtime
	corsConfig *cors.Config
	logger     *slog.Logger
}

func New() *Server {
	return NewWithLogger(slog.Default())
}

// NewWithLogger builds a server whose request log lines go to logger.
// LAMBDA_RUNTIME=true selects the Lambda runtime.
func NewWithLogger(logger *slog.Logger) *Server {
	runtime := RuntimeHTTP
	if os.Getenv("LAMBDA_RUNTIME") == "true" {
		runtime = RuntimeLambda
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	return &Server{
		engine:  engine,
		runtime: runtime,
		logger:  logger,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Runtime() Runtime {
	return s.runtime
}

func (s *Server) SetRuntime(runtime Runtime) {
	s.runtime = runtime
}

func (s *Server) SetHTMLTemplate(tmpl *template.Template) {
	s.engine.SetHTMLTemplate(tmpl)
}

func (s *Server) Start(port int) error {
	return s.StartContext(context.Background(), port)
}

// StartContext serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) StartContext(ctx context.Context, port int) error {
	if s.runtime == RuntimeLambda {
		return s.startLambda()
	}
	return s.startHTTP(ctx, port)
}

func (s *Server) startHTTP(ctx context.Context, port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) startLambda() error {
	ginLambda := ginadapter.New(s.engine)

	handler := func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return ginLambda.ProxyWithContext(ctx, req)
	}

	lambda.Start(handler)
	return nil
}

func (s *Server) WithCORS(config *cors.Config) *Server {
	s.corsConfig = config
	s.engine.Use(cors.New(*config))
	return s
}

func (s *Server) DefaultCORS() *Server {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", RequestIDHeader}
	config.MaxAge = 12 * time.Hour
	return s.WithCORS(&config)
}

func (s *Server) CustomCORS(allowOrigins []string, allowMethods []string, allowHeaders []string, maxAge time.Duration) *Server {
	config := cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: allowMethods,
		AllowHeaders: allowHeaders,
		MaxAge:       maxAge,
	}
	return s.WithCORS(&config)
}
