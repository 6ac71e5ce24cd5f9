package httpapi

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"time"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/bills"
	"fuatilia.org/internal/filestore"
	"fuatilia.org/internal/obs"
	"fuatilia.org/internal/props"
	"fuatilia.org/internal/representatives"
	"fuatilia.org/internal/users"
	"fuatilia.org/internal/votes"
)

// ReadyProbe reports backend readiness, typically a DB ping.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// FileStore is the object storage surface the handlers need. Satisfied by
// *filestore.Client and stubbed in tests.
type FileStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)
	Stream(ctx context.Context, key string, startKB, stopKB int64) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]filestore.Object, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

var _ FileStore = (*filestore.Client)(nil)

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	users  *users.Service
	tokens *auth.TokenService
	gate   *auth.Gate
	dir    auth.Directory
	rbac   *auth.RBACService
	bills  *bills.Service
	reps   *representatives.Service
	votes  *votes.Service
	props  *props.Service
	files  FileStore
}

// Deps carries the services the API routes to.
type Deps struct {
	ReadyProbe ReadyProbe
	Version    string

	Users     *users.Service
	Tokens    *auth.TokenService
	Directory auth.Directory
	RBAC      *auth.RBACService
	Bills     *bills.Service
	Reps      *representatives.Service
	Votes     *votes.Service
	Props     *props.Service
	Files     FileStore
}

func New(d Deps) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: d.ReadyProbe,
		version:    d.Version,
		users:      d.Users,
		tokens:     d.Tokens,
		gate:       auth.NewGate(d.Directory),
		dir:        d.Directory,
		rbac:       d.RBAC,
		bills:      d.Bills,
		reps:       d.Reps,
		votes:      d.Votes,
		props:      d.Props,
		files:      d.Files,
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// OpenAPI YAML
	a.mux.HandleFunc("/openapi.yaml", a.OpenAPISpec)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// auth
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/token", a.handleAppToken)
	a.mux.HandleFunc("/v1/verify/", a.handleVerifyLink)

	// accounts
	a.mux.HandleFunc("/v1/users", a.handleUsers)
	a.mux.HandleFunc("/v1/users/", a.handleUserResource)
	a.mux.HandleFunc("/v1/apps", a.handleApps)

	// rbac
	a.mux.HandleFunc("/v1/roles", a.handleRoles)
	a.mux.HandleFunc("/v1/roles/", a.handleRoleResource)
	a.mux.HandleFunc("/v1/permissions", a.handlePermissions)
	a.mux.HandleFunc("/v1/permissions/", a.handlePermissionResource)

	// domain
	a.mux.HandleFunc("/v1/bills", a.handleBills)
	a.mux.HandleFunc("/v1/bills/", a.handleBillResource)
	a.mux.HandleFunc("/v1/representatives", a.handleRepresentatives)
	a.mux.HandleFunc("/v1/representatives/", a.handleRepresentativeResource)
	a.mux.HandleFunc("/v1/votes", a.handleVotes)
	a.mux.HandleFunc("/v1/votes/", a.handleVoteResource)
	a.mux.HandleFunc("/v1/configs", a.handleConfigs)
	a.mux.HandleFunc("/v1/configs/", a.handleConfigResource)
	a.mux.HandleFunc("/v1/faqs", a.handleFAQs)
	a.mux.HandleFunc("/v1/faqs/", a.handleFAQResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler composes the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 10<<20)
	h = RateLimit(h, 30, 10)
	h = LoggingJSON(h)
	h = RequestID(h)
	h = CORS(h)
	h = SecurityHeaders(h)
	return obs.Instrument(h)
}
