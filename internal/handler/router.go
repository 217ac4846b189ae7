package handler

import (
	"net/http"
	"strings"

	"github.com/kururay/backend/internal/repository"
	"github.com/kururay/backend/internal/service"
	"github.com/kururay/backend/pkg/auth"
)

// Services は各ハンドラが依存するサービス群
type Services struct {
	Projects    service.ProjectService
	Assignments service.AssignmentService
	Evidence    service.EvidenceService
	Attendance  service.AttendanceService
	Auth        service.AuthService
}

// RouterConfig はルーティングの設定
type RouterConfig struct {
	DB          repository.DB
	FrontendURL string
	// Authenticate は Actor を context にセットするミドルウェア (RequireAuth / DevAuth)
	Authenticate func(http.Handler) http.Handler
	// LoginLimiter は nil の場合 POST /login を制限しない
	LoginLimiter *RateLimiter
	// UploadDir が空でなければ UploadURLPrefix 配下で証拠写真を配信する
	UploadDir       string
	UploadURLPrefix string
}

// NewRouter は全エンドポイントを登録した http.Handler を返す
func NewRouter(cfg RouterConfig, svc Services) http.Handler {
	h := New(cfg.DB, cfg.FrontendURL)
	authHandler := NewAuthHandler(svc.Auth)
	projectHandler := NewProjectHandler(svc.Projects)
	assignmentHandler := NewAssignmentHandler(svc.Assignments)
	evidenceHandler := NewEvidenceHandler(svc.Evidence)
	attendanceHandler := NewAttendanceHandler(svc.Attendance)

	// role ごとの認証 + 認可チェーン
	gate := func(roles []auth.Role, fn http.HandlerFunc) http.Handler {
		return cfg.Authenticate(auth.RequireRole(roles...)(fn))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)

	var login http.Handler = http.HandlerFunc(authHandler.Login)
	if cfg.LoginLimiter != nil {
		login = cfg.LoginLimiter.Middleware(login)
	}
	mux.Handle("POST /login", login)

	// voluntariados
	mux.Handle("GET /voluntariados", gate(auth.Readers, projectHandler.List))
	mux.Handle("POST /voluntariados", gate(auth.Managers, projectHandler.Create))
	mux.Handle("GET /voluntariados/{id}", gate(auth.Readers, projectHandler.Get))
	mux.Handle("PUT /voluntariados/{id}", gate(auth.Managers, projectHandler.Update))
	mux.Handle("PATCH /voluntariados/{id}/estado-alta", gate(auth.Admins, projectHandler.SetVisibility))
	mux.Handle("POST /voluntariados/{id}/aprobar", gate(auth.Admins, projectHandler.Approve))
	mux.Handle("PATCH /voluntariados/{id}/estado", gate(auth.Admins, projectHandler.SetStatus))
	mux.Handle("GET /voluntariados/{id}/estados", gate(auth.Readers, projectHandler.StatusHistory))
	mux.Handle("POST /voluntariados/{id}/cerrar", gate(auth.Admins, projectHandler.Close))
	mux.Handle("GET /voluntariados/{id}/historial", gate(auth.Readers, projectHandler.History))

	// 割当
	mux.Handle("POST /voluntariados/voluntarios/asignar", gate(auth.Managers, assignmentHandler.Assign))
	mux.Handle("DELETE /voluntariados/{voluntariadoId}/voluntarios/{voluntarioId}", gate(auth.Managers, assignmentHandler.Unassign))
	mux.Handle("GET /voluntariados/{id}/voluntarios", gate(auth.Readers, assignmentHandler.ListAssigned))
	mux.Handle("GET /voluntarios/no-asignados", gate(auth.Readers, assignmentHandler.ListUnassigned))

	// 証拠・出欠
	mux.Handle("GET /voluntariados/{id}/evidencias", gate(auth.Readers, evidenceHandler.List))
	mux.Handle("POST /voluntariados/{id}/evidencias", gate(auth.Recorders, evidenceHandler.Create))
	mux.Handle("DELETE /evidencias/{id}", gate(auth.Admins, evidenceHandler.Delete))
	mux.Handle("POST /evidencias/{id}/foto", gate(auth.Recorders, evidenceHandler.UploadPhoto))
	mux.Handle("GET /voluntariados/{id}/asistencias", gate(auth.Readers, attendanceHandler.List))
	mux.Handle("POST /voluntariados/{id}/asistencias", gate(auth.Recorders, attendanceHandler.Create))

	if cfg.UploadDir != "" {
		prefix := strings.TrimRight(cfg.UploadURLPrefix, "/") + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.UploadDir))))
	}

	return RequestID(RequestLogger(SecurityHeaders(h.CORS(mux))))
}
