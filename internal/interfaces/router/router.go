package router

import (
	authsvc "krishi-backend/internal/application/auth"
	carbonsvc "krishi-backend/internal/application/carbon"
	mktsvc "krishi-backend/internal/application/market"
	plotsvc "krishi-backend/internal/application/plots"
	schemesvc "krishi-backend/internal/application/schemes"
	usersvc "krishi-backend/internal/application/user"
	"krishi-backend/internal/config"
	"krishi-backend/internal/infrastructure/database"
	authhandler "krishi-backend/internal/interfaces/handlers/auth"
	carbonhandler "krishi-backend/internal/interfaces/handlers/carbon"
	healthhandler "krishi-backend/internal/interfaces/handlers/health"
	mkthandler "krishi-backend/internal/interfaces/handlers/market"
	plothandler "krishi-backend/internal/interfaces/handlers/plots"
	schemehandler "krishi-backend/internal/interfaces/handlers/schemes"
	userhandler "krishi-backend/internal/interfaces/handlers/user"
	"krishi-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with global middleware and all routes.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Root)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/reset", hh.Reset)

	if db != nil {
		// Auth
		as := &authsvc.Service{DB: db, Rdb: rdb, OTPTTL: cfg.OTPTTL, DevEchoOTP: cfg.Env != "production"}
		ah := &authhandler.Handlers{Service: as, Rdb: rdb, Config: sessionCfg}
		ag := app.Group("/api/v1/auth")
		ag.Post("/send-otp", ah.SendOTP)
		ag.Post("/verify-otp", ah.VerifyOTP)
		ag.Get("/me", ah.Me)
		ag.Delete("/logout", ah.Logout)

		// Users
		us := &usersvc.Service{DB: db}
		uh := &userhandler.Handlers{Service: us}
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Get("/view-user", uh.ViewUser)
		ug.Put("/update-user", uh.UpdateUser)

		// Plots
		ps := &plotsvc.Service{DB: db}
		ph := &plothandler.Handlers{Service: ps}
		pg := app.Group("/api/v1/plots", middleware.RequireAuth())
		pg.Post("/", ph.Create)
		pg.Get("/", ph.List)
		pg.Get("/:plot_id", ph.Get)

		// Carbon
		cs := &carbonsvc.Service{
			DB:       db,
			Adoption: carbonsvc.RandomAdoptionEstimator{},
			Audit:    carbonsvc.RandomAuditModel{},
		}
		ch := &carbonhandler.Handlers{Service: cs}
		cg := app.Group("/api/v1/carbon", middleware.RequireAuth())
		cg.Get("/projects", ch.ListProjects)
		cg.Post("/enroll", ch.Enroll)
		cg.Post("/:project_id/evidence", ch.SubmitEvidence)
		cg.Post("/:project_id/verify", ch.Verify)

		// Market
		ms := &mktsvc.Service{DB: db}
		mh := &mkthandler.Handlers{Service: ms}
		mg := app.Group("/api/v1/market", middleware.RequireAuth())
		mg.Post("/listings", mh.Create)
		mg.Get("/listings", mh.List)
		mg.Get("/my-listings", mh.Mine)

		// Schemes
		ss := &schemesvc.Service{DB: db}
		sh := &schemehandler.Handlers{Service: ss}
		sg := app.Group("/api/v1/schemes", middleware.RequireAuth())
		sg.Get("/", sh.List)
		sg.Post("/", sh.Create)
		sg.Post("/apply", sh.Apply)
	}

	return app, db, rdb, nil
}
