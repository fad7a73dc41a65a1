package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/fitcoach/internal/auth"
	"github.com/2beens/fitcoach/internal/catalog"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/db"
	"github.com/2beens/fitcoach/internal/middleware"
	"github.com/2beens/fitcoach/internal/oracle"
	"github.com/2beens/fitcoach/internal/profile"
	"github.com/2beens/fitcoach/internal/progress"
	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"
)

const (
	sessionsCleanupInterval = 8 * time.Hour
	maxRequestBodyBytes     = 1 << 20
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	loginChecker   auth.Checker
	authService    *auth.Service
	rateLimiter    middleware.RequestRateLimiter
	trustedProxies *pkg.TrustedProxies

	profileHandler  *profile.Handler
	progressHandler *progress.Handler
	coachHandler    *oracle.Handler
	catalogHandler  *catalog.Handler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()

	stopCleanup context.CancelFunc
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	trustedProxies, err := pkg.ParseTrustedProxies(params.Config.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.Secrets.PostgresPassword,
		TracingEnabled: params.Secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitcoach", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.Secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,

		trustedProxies: trustedProxies,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.Secrets.HoneycombEnabled, params.Secrets.OtelServiceName, rdb)
	if err != nil {
		s.releaseResources()
		return nil, err
	}
	s.otelShutdown = otelShutdown

	authService := auth.NewAuthService(params.Config.SessionTTL(), rdb)
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go authService.RunCleanup(cleanupCtx, sessionsCleanupInterval)
	s.stopCleanup = stopCleanup

	var generator *oracle.GeminiGenerator
	if params.Secrets.GeminiAPIKey == "" {
		log.Warnln("gemini api key not set, coach estimates will use local fallbacks")
	} else {
		generator, err = oracle.NewGeminiGenerator(ctx, params.Secrets.GeminiAPIKey, params.Config.OracleModel)
		if err != nil {
			s.releaseResources()
			return nil, fmt.Errorf("new gemini generator: %w", err)
		}
	}
	coach := newOracle(generator, params.Config, metricsManager)

	profileRepo := profile.NewRepo(dbPool)
	profileService := profile.NewService(
		profileRepo,
		authService,
		coach,
		metricsManager,
		params.Config.OracleTimeout(),
	)
	progressService := progress.NewService(
		profile.NewMetricsStore(profileRepo),
		coach,
		metricsManager,
	)

	s.loginChecker = auth.NewLoginChecker(params.Config.SessionTTL(), rdb)
	s.authService = authService
	s.rateLimiter = redis_rate.NewLimiter(rdb)

	s.profileHandler = profile.NewHandler(profileService)
	s.progressHandler = progress.NewHandler(progressService)
	s.coachHandler = oracle.NewHandler(coach)
	s.catalogHandler = catalog.NewHandler(catalog.NewRepo(dbPool))

	return s, nil
}

// newOracle avoids handing a typed nil generator to the oracle.
func newOracle(generator *oracle.GeminiGenerator, cfg *config.Config, metricsManager *metrics.Manager) *oracle.Oracle {
	params := oracle.Params{
		Timeout:     cfg.OracleTimeout(),
		CacheSizeMB: cfg.OracleCacheSizeMB,
		Metrics:     metricsManager,
	}
	if generator == nil {
		return oracle.New(nil, params)
	}
	return oracle.New(generator, params)
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitcoach-router"))

	r.HandleFunc("/", handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	// signup and login are limited per client ip
	loginRateLimit := middleware.RateLimit(
		s.rateLimiter, "login", s.config.LoginRateLimitAllowedPerMin, s.trustedProxies, s.metricsManager,
	)

	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.Handle("/signup", loginRateLimit(http.HandlerFunc(s.profileHandler.HandleSignup))).
		Methods("POST", "OPTIONS").Name("signup")
	userRouter.Handle("/login", loginRateLimit(http.HandlerFunc(s.profileHandler.HandleLogin))).
		Methods("POST", "OPTIONS").Name("login")
	userRouter.HandleFunc("/logout", s.profileHandler.HandleLogout).Methods("GET", "POST", "OPTIONS").Name("logout")
	userRouter.HandleFunc("/profile", s.profileHandler.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	userRouter.HandleFunc("/update-profile", s.profileHandler.HandleUpdateProfile).Methods("POST", "OPTIONS").Name("update-profile")
	userRouter.HandleFunc("/save-diet", s.profileHandler.HandleSaveDiet).Methods("POST", "OPTIONS").Name("save-diet")
	userRouter.HandleFunc("/workouts/save", s.profileHandler.HandleSaveWorkout).Methods("POST", "OPTIONS").Name("save-workout")
	userRouter.HandleFunc("/log-entry", s.progressHandler.HandleLogEntry).Methods("POST", "OPTIONS").Name("log-entry")
	userRouter.HandleFunc("/progress/{timeframe}", s.progressHandler.HandleProgress).Methods("GET", "OPTIONS").Name("progress")

	coachRouter := r.PathPrefix("/coach").Subrouter()
	coachRouter.HandleFunc("/estimate/nutrition", s.coachHandler.HandleEstimateNutrition).Methods("POST", "OPTIONS")
	coachRouter.HandleFunc("/estimate/workout", s.coachHandler.HandleEstimateWorkout).Methods("POST", "OPTIONS")
	coachRouter.HandleFunc("/diet-plan", s.coachHandler.HandleDietPlan).Methods("POST", "OPTIONS")
	coachRouter.HandleFunc("/chat", s.coachHandler.HandleChat).Methods("POST", "OPTIONS")
	coachRouter.Use(middleware.RateLimit(
		s.rateLimiter, "coach", s.config.CoachRateLimitAllowedPerMin, s.trustedProxies, s.metricsManager,
	))

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/workouts", s.catalogHandler.HandleListWorkouts).Methods("GET", "OPTIONS").Name("list-workouts")
	apiRouter.HandleFunc("/workouts", s.catalogHandler.HandleAddWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	apiRouter.HandleFunc("/workouts/{id}", s.catalogHandler.HandleGetWorkout).Methods("GET", "OPTIONS").Name("get-workout")
	apiRouter.HandleFunc("/exercise", s.catalogHandler.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	apiRouter.HandleFunc("/exercise", s.catalogHandler.HandleAddExercise).Methods("POST", "OPTIONS").Name("new-exercise")
	apiRouter.HandleFunc("/exercise/{id}", s.catalogHandler.HandleGetExercise).Methods("GET", "OPTIONS").Name("get-exercise")
	apiRouter.HandleFunc("/exercise/{id}", s.catalogHandler.HandleUpdateExercise).Methods("PUT", "OPTIONS").Name("update-exercise")
	apiRouter.HandleFunc("/exercise/{id}", s.catalogHandler.HandleDeleteExercise).Methods("DELETE", "OPTIONS").Name("delete-exercise")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest(s.trustedProxies))
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitAndDrainBody(maxRequestBodyBytes))

	return r
}

// handler wraps the router with CORS, so preflight requests are answered
// even for paths the router does not know.
func (s *Server) handler() http.Handler {
	return middleware.Cors(s.config.AllowedOrigins)(s.routerSetup())
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.handler(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop accepting requests first, handlers still need redis and the db
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	s.releaseResources()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

// releaseResources stops the session cleanup, shuts down otel and closes the
// redis client and the db pool. Parts that were never set up are skipped, so
// a half built server can be released too.
func (s *Server) releaseResources() {
	if s.stopCleanup != nil {
		s.stopCleanup()
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
