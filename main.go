package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"clubhub/api"
	"clubhub/clients/gcp"
	"clubhub/clients/push"
	"clubhub/clients/store"
	"clubhub/envvars"
	"clubhub/services/attendance"
	"clubhub/services/club"
	"clubhub/services/event"
	"clubhub/services/notification"
	"clubhub/services/parentchild"
	"clubhub/services/request"
	"clubhub/services/user"
	"clubhub/validator"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginmiddleware "github.com/oapi-codegen/gin-middleware"
)

func main() {
	env := envvars.GetEvn()
	ctx := context.Background()

	firestore := gcp.CreateFirestore(ctx, env.ProjectID)
	defer firestore.Close()
	db := store.NewFirestore(firestore)

	var searchClient *search.APIClient
	if env.AlgoliaAppID != "" {
		var err error
		searchClient, err = search.NewClient(env.AlgoliaAppID, env.AlgoliaAPIKey)
		if err != nil {
			slog.With("error", err.Error()).Error("failed to create search client")
		}
	}

	var sender notification.Sender
	if env.PushEndpoint != "" {
		sender = push.NewClient(env.PushEndpoint, env.PushAPIKey)
	}

	var uploader attendance.ReportUploader
	if env.ReportsBucket != "" {
		uploader = gcp.BucketUploader{Bucket: env.ReportsBucket}
	}

	userService := user.NewService(db, searchClient)
	clubService := club.NewService(db)
	eventService := event.NewService(db)
	requestService := request.NewService(db, clubService, userService)
	parentChildService := parentchild.NewService(db, userService, clubService, requestService)
	attendanceService := attendance.NewService(db, clubService, userService, eventService, uploader)
	notificationService := notification.NewService(db, clubService, sender)

	server := NewServer(
		userService,
		clubService,
		eventService,
		requestService,
		parentChildService,
		attendanceService,
		notificationService,
	)

	// Load OpenAPI spec file
	swagger, err := api.GetSwagger()
	if err != nil {
		slog.With("error", err.Error()).Error("failed to load swagger spec file")
		return
	}
	// Clear out the servers array in the swagger spec, that skips validating
	// that server names match. We don't know how this thing will be run.
	swagger.Servers = nil

	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/openapi", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/x-yaml", api.RawSpec())
	})
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.Pong{Ping: "pong"})
	})
	if env.ReportsBucket != "" {
		// Streams exported CSVs straight out of the bucket. The object path
		// contains slashes, so this lives outside the validated routes.
		r.GET("/reports/*object", func(c *gin.Context) {
			object := strings.TrimPrefix(c.Param("object"), "/")
			c.Header("Content-Type", "text/csv")
			if err := gcp.DownloadObject(c.Request.Context(), c.Writer, env.ReportsBucket, object); err != nil {
				c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "REPORT_NOT_FOUND"})
			}
		})
	}

	r.Use(ginmiddleware.OapiRequestValidatorWithOptions(swagger, &ginmiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: validator.Authenticate,
		},
	}))
	server.RegisterRoutes(r)

	s := &http.Server{
		Handler: r,
		Addr:    "0.0.0.0:8080",
	}

	slog.Info("Starting HTTP server on port 8080")
	log.Fatal(s.ListenAndServe())
}
