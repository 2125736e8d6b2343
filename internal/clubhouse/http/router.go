package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/metrics"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/store"
	"github.com/aussiebroadwan/clubhouse/pkg/httpx"
	"github.com/aussiebroadwan/clubhouse/pkg/jwtx"
	"github.com/aussiebroadwan/clubhouse/pkg/slogx"

	_ "github.com/aussiebroadwan/clubhouse/api/clubhouse" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys           *jwtx.KeySet
	adminVerifier  jwtx.Verifier
	memberVerifier jwtx.Verifier
	buildVersion   string
	startTime      time.Time
	logger         *slog.Logger
	store          store.Store

	Limiters               httpx.LimiterFactory
	SecureCookies          bool
	SiteURL                string
	ExposeVerificationCode bool
	MobileAPIKey           string
	Uploads                http.Handler // nil when logos are served from a bucket
	LimiterPing            func(context.Context) error

	Sessions           *service.SessionIssuer
	ApplicationService *service.ApplicationService
	MemberService      *service.MemberService
	MentorshipService  *service.MentorshipService
	ForumService       *service.ForumService
	SponsorService     *service.SponsorService
	AdminService       *service.AdminService
	BootstrapService   *service.BootstrapService
}

func NewRouter(
	keys *jwtx.KeySet,
	adminVerifier, memberVerifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		keys:           keys,
		adminVerifier:  adminVerifier,
		memberVerifier: memberVerifier,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
		Limiters:       httpx.MemoryLimiters{},
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.InstrumentHandler,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerApplications()
	r.registerActivation()
	r.registerMembers()
	r.registerMentorship()
	r.registerForum()
	r.registerSponsors()
	r.registerAdmin()
	r.registerMobile()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Clubhouse API
//	@version		0.1.0
//	@description	Membership, sponsorship and community API for the clubhouse.
//	@description
//	@description				New members join by sponsor approval. Sessions are EdDSA-signed JWTs carried in httpOnly cookies.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/clubhouse
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	AdminSession
//	@in							cookie
//	@name						clubhouse_admin
//	@description				Admin session cookie set by /v1/admin/login.
//
//	@securityDefinitions.apikey	MemberSession
//	@in							cookie
//	@name						clubhouse_member
//	@description				Member session cookie set by /v1/members/login.
//
//	@securityDefinitions.apikey	MobileKey
//	@in							header
//	@name						Authorization
//	@description				Mobile API key. Format: "Bearer {key}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) limit(name string, cfg httpx.RateLimitConfig) httpx.Limiter {
	return r.Limiters.New(name, cfg)
}

// adminOnly verifies the admin cookie and that the admin still exists.
func (r *Router) adminOnly(name string, cfg httpx.RateLimitConfig) []httpx.Middleware {
	return []httpx.Middleware{
		httpx.SessionMiddleware(r.adminVerifier, AdminCookie),
		httpx.RequireAnyScope(service.ScopeAdmin),
		requireAdmin(r.AdminService),
		httpx.RateLimitBySubject(r.limit(name, cfg)),
	}
}

// membersOnly verifies the member cookie and that the member is still active.
func (r *Router) membersOnly(name string, cfg httpx.RateLimitConfig) []httpx.Middleware {
	return []httpx.Middleware{
		httpx.SessionMiddleware(r.memberVerifier, MemberCookie),
		httpx.RequireAnyScope(service.ScopeMember),
		requireActiveMember(r.MemberService),
		httpx.RateLimitBySubject(r.limit(name, cfg)),
	}
}

func (r *Router) registerApplications() {
	h := &ApplicationsHandler{
		ApplicationService:     r.ApplicationService,
		ExposeVerificationCode: r.ExposeVerificationCode,
	}

	// POST /v1/applications - strict rate limit by IP (public form)
	r.Mux.Handle("POST /v1/applications",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(r.limit("applications.create", httpx.StrictLimit)),
		),
	)

	r.Mux.Handle("GET /v1/applications/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(r.limit("applications.get", httpx.LenientLimit)),
		),
	)

	// Approve/reject guess a 6 digit code, so limit per token as well as per IP
	r.Mux.Handle("POST /v1/applications/{token}/approve",
		httpx.Chain(http.HandlerFunc(h.HandleApprove),
			httpx.RateLimitByIPAndPathValue(r.limit("applications.approve", httpx.StrictLimit), "token"),
		),
	)
	r.Mux.Handle("POST /v1/applications/{token}/reject",
		httpx.Chain(http.HandlerFunc(h.HandleReject),
			httpx.RateLimitByIPAndPathValue(r.limit("applications.reject", httpx.StrictLimit), "token"),
		),
	)
}

func (r *Router) registerActivation() {
	h := &ActivationHandler{
		ApplicationService: r.ApplicationService,
		Sessions:           r.Sessions,
		SiteURL:            r.SiteURL,
		SecureCookies:      r.SecureCookies,
	}

	r.Mux.Handle("GET /v1/activate/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(r.limit("activate.get", httpx.ModerateLimit)),
		),
	)
	r.Mux.Handle("POST /v1/activate/{token}",
		httpx.Chain(http.HandlerFunc(h.HandlePost),
			httpx.RateLimitByIP(r.limit("activate.post", httpx.StrictLimit)),
		),
	)
}

func (r *Router) registerMembers() {
	h := &MembersHandler{
		MemberService: r.MemberService,
		Sessions:      r.Sessions,
		SecureCookies: r.SecureCookies,
	}

	// POST /v1/members/login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/members/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(r.limit("members.login", httpx.StrictLimit)),
		),
	)
	r.Mux.Handle("POST /v1/members/logout", http.HandlerFunc(h.HandleLogout))

	r.Mux.Handle("GET /v1/members/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe), r.membersOnly("members.me", httpx.LenientLimit)...))
	r.Mux.Handle("PATCH /v1/members/me",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateMe), r.membersOnly("members.update", httpx.ModerateLimit)...))
	r.Mux.Handle("GET /v1/members",
		httpx.Chain(http.HandlerFunc(h.HandleDirectory), r.membersOnly("members.directory", httpx.LenientLimit)...))
}

func (r *Router) registerMentorship() {
	h := &MentorshipHandler{MentorshipService: r.MentorshipService}

	r.Mux.Handle("GET /v1/mentors",
		httpx.Chain(http.HandlerFunc(h.HandleMentors), r.membersOnly("mentors.list", httpx.LenientLimit)...))
	r.Mux.Handle("GET /v1/mentorship/requests",
		httpx.Chain(http.HandlerFunc(h.HandleList), r.membersOnly("mentorship.list", httpx.LenientLimit)...))
	r.Mux.Handle("POST /v1/mentorship/requests",
		httpx.Chain(http.HandlerFunc(h.HandleRequest), r.membersOnly("mentorship.request", httpx.ModerateLimit)...))
	r.Mux.Handle("POST /v1/mentorship/requests/{id}/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept), r.membersOnly("mentorship.respond", httpx.ModerateLimit)...))
	r.Mux.Handle("POST /v1/mentorship/requests/{id}/decline",
		httpx.Chain(http.HandlerFunc(h.HandleDecline), r.membersOnly("mentorship.respond", httpx.ModerateLimit)...))
}

func (r *Router) registerForum() {
	h := &ForumHandler{ForumService: r.ForumService}

	r.Mux.Handle("GET /v1/forum/posts",
		httpx.Chain(http.HandlerFunc(h.HandleList), r.membersOnly("forum.list", httpx.LenientLimit)...))
	r.Mux.Handle("POST /v1/forum/posts",
		httpx.Chain(http.HandlerFunc(h.HandleCreate), r.membersOnly("forum.post", httpx.ModerateLimit)...))
	r.Mux.Handle("GET /v1/forum/posts/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleThread), r.membersOnly("forum.thread", httpx.LenientLimit)...))
	r.Mux.Handle("POST /v1/forum/posts/{id}/comments",
		httpx.Chain(http.HandlerFunc(h.HandleComment), r.membersOnly("forum.comment", httpx.ModerateLimit)...))
	r.Mux.Handle("DELETE /v1/forum/comments/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDeleteComment), r.membersOnly("forum.delete", httpx.ModerateLimit)...))

	// DELETE /v1/forum/posts/{id} - the author or any admin
	r.Mux.Handle("DELETE /v1/forum/posts/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDeletePost),
			httpx.AnySessionMiddleware(
				httpx.SessionSource{Verifier: r.memberVerifier, Cookie: MemberCookie},
				httpx.SessionSource{Verifier: r.adminVerifier, Cookie: AdminCookie},
			),
			requireSessionHolder(r.AdminService, r.MemberService),
			httpx.RateLimitBySubject(r.limit("forum.delete", httpx.ModerateLimit)),
		),
	)
}

func (r *Router) registerSponsors() {
	h := &SponsorsHandler{SponsorService: r.SponsorService}

	// GET /v1/sponsors - public, hearts marked for a signed-in member
	r.Mux.Handle("GET /v1/sponsors",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.OptionalSessionMiddleware(r.memberVerifier, MemberCookie),
			httpx.RateLimitByIP(r.limit("sponsors.list", httpx.PublicLimit)),
		),
	)
	r.Mux.Handle("POST /v1/sponsors/{id}/heart",
		httpx.Chain(http.HandlerFunc(h.HandleHeart), r.membersOnly("sponsors.heart", httpx.ModerateLimit)...))
	r.Mux.Handle("DELETE /v1/sponsors/{id}/heart",
		httpx.Chain(http.HandlerFunc(h.HandleUnheart), r.membersOnly("sponsors.heart", httpx.ModerateLimit)...))

	r.Mux.Handle("POST /v1/admin/sponsors",
		httpx.Chain(http.HandlerFunc(h.HandleCreate), r.adminOnly("admin.sponsors.write", httpx.ModerateLimit)...))
	r.Mux.Handle("PUT /v1/admin/sponsors/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate), r.adminOnly("admin.sponsors.write", httpx.ModerateLimit)...))
	r.Mux.Handle("DELETE /v1/admin/sponsors/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete), r.adminOnly("admin.sponsors.write", httpx.ModerateLimit)...))
	r.Mux.Handle("POST /v1/admin/sponsors/{id}/logo",
		httpx.Chain(http.HandlerFunc(h.HandleLogo), r.adminOnly("admin.sponsors.logo", httpx.ModerateLimit)...))
}

func (r *Router) registerAdmin() {
	session := &AdminSessionHandler{
		AdminService:  r.AdminService,
		Sessions:      r.Sessions,
		SecureCookies: r.SecureCookies,
	}

	// POST /v1/admin/login - strict rate limit by IP (password + TOTP guessing)
	r.Mux.Handle("POST /v1/admin/login",
		httpx.Chain(http.HandlerFunc(session.HandleLogin),
			httpx.RateLimitByIP(r.limit("admin.login", httpx.StrictLimit)),
		),
	)
	r.Mux.Handle("POST /v1/admin/logout", http.HandlerFunc(session.HandleLogout))
	r.Mux.Handle("GET /v1/admin/session",
		httpx.Chain(http.HandlerFunc(session.HandleSession), r.adminOnly("admin.session", httpx.LenientLimit)...))
	r.Mux.Handle("POST /v1/admin/mfa/enroll",
		httpx.Chain(http.HandlerFunc(session.HandleEnroll), r.adminOnly("admin.mfa.enroll", httpx.ModerateLimit)...))
	r.Mux.Handle("POST /v1/admin/mfa/verify",
		httpx.Chain(http.HandlerFunc(session.HandleVerify), r.adminOnly("admin.mfa.verify", httpx.StrictLimit)...))

	apps := &AdminApplicationsHandler{ApplicationService: r.ApplicationService}
	r.Mux.Handle("GET /v1/admin/applications",
		httpx.Chain(http.HandlerFunc(apps.HandleList), r.adminOnly("admin.applications.list", httpx.LenientLimit)...))
	r.Mux.Handle("POST /v1/admin/applications/{id}/reject",
		httpx.Chain(http.HandlerFunc(apps.HandleReject), r.adminOnly("admin.applications.reject", httpx.ModerateLimit)...))

	members := &AdminMembersHandler{MemberService: r.MemberService}
	r.Mux.Handle("GET /v1/admin/members",
		httpx.Chain(http.HandlerFunc(members.HandleList), r.adminOnly("admin.members.list", httpx.LenientLimit)...))
	r.Mux.Handle("POST /v1/admin/members",
		httpx.Chain(http.HandlerFunc(members.HandleCreate), r.adminOnly("admin.members.write", httpx.ModerateLimit)...))
	r.Mux.Handle("PATCH /v1/admin/members/{id}",
		httpx.Chain(http.HandlerFunc(members.HandleUpdate), r.adminOnly("admin.members.write", httpx.ModerateLimit)...))
	r.Mux.Handle("DELETE /v1/admin/members/{id}",
		httpx.Chain(http.HandlerFunc(members.HandleDelete), r.adminOnly("admin.members.write", httpx.ModerateLimit)...))
}

func (r *Router) registerMobile() {
	h := &MobileHandler{
		MemberService:  r.MemberService,
		ForumService:   r.ForumService,
		SponsorService: r.SponsorService,
	}

	mobile := func(handler http.HandlerFunc, name string) http.Handler {
		return httpx.Chain(handler,
			httpx.APIKeyMiddleware(r.MobileAPIKey),
			httpx.RateLimitByIP(r.limit(name, httpx.ModerateLimit)),
		)
	}

	r.Mux.Handle("GET /v1/mobile/members", mobile(h.HandleMembers, "mobile.members"))
	r.Mux.Handle("GET /v1/mobile/posts", mobile(h.HandlePosts, "mobile.posts"))
	r.Mux.Handle("GET /v1/mobile/sponsors", mobile(h.HandleSponsors, "mobile.sponsors"))
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			httpx.RateLimitByIP(r.limit("bootstrap", httpx.StrictLimit)),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limit("livez", httpx.LenientLimit)),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.LimiterPing),
			httpx.RateLimitByIP(r.limit("readyz", httpx.LenientLimit)),
		),
	)
	r.Mux.Handle("GET /metrics", metrics.Handler())

	if r.Uploads != nil {
		r.Mux.Handle("GET /uploads/", http.StripPrefix("/uploads", r.Uploads))
	}
}
