package main

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"clubhub/api"
	"clubhub/apperr"
	"clubhub/services/attendance"
	"clubhub/services/club"
	"clubhub/services/event"
	"clubhub/services/notification"
	"clubhub/services/parentchild"
	"clubhub/services/request"
	"clubhub/services/user"
	"clubhub/validator"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type Server struct {
	UserService         user.Service
	ClubService         club.Service
	EventService        event.Service
	RequestService      request.Service
	ParentChildService  parentchild.Service
	AttendanceService   attendance.Service
	NotificationService notification.Service
}

func NewServer(
	users user.Service,
	clubs club.Service,
	events event.Service,
	requests request.Service,
	parentChild parentchild.Service,
	sessions attendance.Service,
	notifications notification.Service,
) *Server {
	return &Server{
		UserService:         users,
		ClubService:         clubs,
		EventService:        events,
		RequestService:      requests,
		ParentChildService:  parentChild,
		AttendanceService:   sessions,
		NotificationService: notifications,
	}
}

var statusByCode = map[string]int{
	"ACCOUNT_NOT_FOUND":          http.StatusNotFound,
	"CHILD_NOT_FOUND":            http.StatusNotFound,
	"RELATIONSHIP_NOT_FOUND":     http.StatusNotFound,
	"CLUB_NOT_FOUND":             http.StatusNotFound,
	"TEAM_NOT_FOUND":             http.StatusNotFound,
	"EVENT_NOT_FOUND":            http.StatusNotFound,
	"SESSION_NOT_FOUND":          http.StatusNotFound,
	"NOT_AUTHORIZED":             http.StatusForbidden,
	"USER_NOT_PARENT":            http.StatusConflict,
	"ALREADY_LINKED":             http.StatusConflict,
	"MAX_PARENTS_REACHED":        http.StatusConflict,
	"NO_SHARED_TEAMS":            http.StatusConflict,
	"REQUEST_ALREADY_EXISTS":     http.StatusConflict,
	"APPROVAL_ALREADY_PROCESSED": http.StatusConflict,
	"SESSION_NAME_REQUIRED":      http.StatusUnprocessableEntity,
	"INVALID_USER":               http.StatusUnprocessableEntity,
	"INVALID_RESPONSE":           http.StatusUnprocessableEntity,
}

// callerID is the authenticated user id placed on the request by the
// bearer-token middleware, empty for unauthenticated routes.
func callerID(c *gin.Context) string {
	ac, ok := validator.FromContext(c)
	if !ok {
		return ""
	}
	return ac.UserID
}

func (s *Server) editorFor(c *gin.Context) attendance.Editor {
	editor := attendance.Editor{ID: callerID(c)}
	if editor.ID == "" {
		return editor
	}
	if u, err := s.UserService.GetUser(c.Request.Context(), editor.ID); err == nil {
		editor.Name = u.DisplayName()
	}
	return editor
}

func respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	if code == "" {
		if errors.Is(err, user.NotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "USER_NOT_FOUND"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "INTERNAL"})
		return
	}
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, api.ErrorResponse{Error: code})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "INVALID_REQUEST"})
}

// dayParam binds a required date query parameter and renders it in the
// YYYY-MM-DD form the services store.
func dayParam(query url.Values, name string, required bool) (string, error) {
	if !required && query.Get(name) == "" {
		return "", nil
	}
	var d openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, required, name, query, &d); err != nil {
		return "", err
	}
	return d.Format("2006-01-02"), nil
}

func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.GET("/users/:userId", s.getUser)
	r.PATCH("/users/:userId", s.updateUser)
	r.GET("/search/users", s.searchUsers)
	r.GET("/users/:userId/clubs/:clubId/notification-settings", s.getNotificationSettings)
	r.PUT("/users/:userId/clubs/:clubId/notification-settings", s.saveNotificationSettings)

	r.POST("/clubs", s.createClub)
	r.GET("/clubs/:clubId", s.getClub)

	r.POST("/events", s.createEvent)
	r.POST("/events/:eventId/respond", s.respondToEvent)
	r.GET("/teams/:teamId/events", s.getTeamEvents)

	r.POST("/children", s.createChildAccount)
	r.DELETE("/children/:childId", s.deleteChildAccount)
	r.PATCH("/children/:childId/profile", s.updateChildProfile)
	r.POST("/children/:childId/teams", s.assignChildToTeam)
	r.POST("/children/:childId/parents", s.requestAdditionalParent)
	r.GET("/children/:childId/permissions", s.checkChildPermission)

	r.GET("/parents/:parentId/children", s.getParentChildren)
	r.GET("/parents/:parentId/approvals", s.getParentPendingApprovals)

	r.POST("/links", s.requestParentChildLink)
	r.POST("/links/:relationshipId/approve", s.approveParentChildLink)
	r.POST("/links/:relationshipId/decline", s.declineParentChildLink)

	r.POST("/subscriptions", s.requestChildSubscription)
	r.POST("/subscriptions/:approvalId/process", s.processSubscriptionApproval)

	r.GET("/teams/:teamId/attendance/init", s.initAttendanceSession)
	r.POST("/attendance/sessions", s.createAttendanceSession)
	r.GET("/attendance/sessions/:sessionId", s.getAttendanceSession)
	r.PUT("/attendance/sessions/:sessionId", s.updateAttendanceSession)
	r.DELETE("/attendance/sessions/:sessionId", s.deleteAttendanceSession)
	r.GET("/teams/:teamId/attendance", s.getTeamAttendance)
	r.GET("/teams/:teamId/attendance/stats", s.getTeamAttendanceStats)
	r.POST("/teams/:teamId/attendance/export", s.exportTeamAttendance)

	r.GET("/teams/:teamId/requests", s.getTeamJoinRequests)
	r.POST("/requests/:requestId/approve", s.approveJoinRequest)
	r.POST("/requests/:requestId/decline", s.declineJoinRequest)

	r.POST("/admin/reconcile", s.reconcile)
}

func (s *Server) getUser(c *gin.Context) {
	u, err := s.UserService.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) updateUser(c *gin.Context) {
	fields := map[string]any{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c)
		return
	}
	id := c.Param("userId")
	if err := s.UserService.UpdateUser(c.Request.Context(), id, fields); err != nil {
		respondError(c, err)
		return
	}
	u, err := s.UserService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) searchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		badRequest(c)
		return
	}
	results, err := s.UserService.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) createClub(c *gin.Context) {
	body := club.Club{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	created, err := s.ClubService.CreateClub(c.Request.Context(), &body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) getClub(c *gin.Context) {
	result, err := s.ClubService.GetClub(c.Request.Context(), c.Param("clubId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) createEvent(c *gin.Context) {
	body := event.Event{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	created, err := s.EventService.CreateEvent(c.Request.Context(), &body)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.NotificationService.NotifyEvent(c.Request.Context(), created, notification.KindEventCreated); err != nil {
		slog.With("error", err.Error()).Error("failed to send event notifications")
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) respondToEvent(c *gin.Context) {
	body := api.RsvpRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	err := s.EventService.Respond(c.Request.Context(), c.Param("eventId"), body.UserID, body.Response)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getTeamEvents(c *gin.Context) {
	day, err := dayParam(c.Request.URL.Query(), "day", true)
	if err != nil {
		badRequest(c)
		return
	}
	events, err := s.EventService.GetTeamEvents(c.Request.Context(), c.Param("teamId"), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) createChildAccount(c *gin.Context) {
	body := api.CreateChildRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	result, err := s.ParentChildService.CreateChildAccount(c.Request.Context(), body.ParentID, api.ToNewChild(body.Child))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) deleteChildAccount(c *gin.Context) {
	parentID := c.Query("parentId")
	if parentID == "" {
		badRequest(c)
		return
	}
	result, err := s.ParentChildService.DeleteChildAccount(c.Request.Context(), parentID, c.Param("childId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) updateChildProfile(c *gin.Context) {
	body := api.UpdateChildProfileRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	childID := c.Param("childId")
	err := s.ParentChildService.UpdateChildProfile(c.Request.Context(), body.ParentID, childID, api.ToProfileUpdate(body))
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := s.UserService.GetUser(c.Request.Context(), childID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) assignChildToTeam(c *gin.Context) {
	body := api.AssignChildRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	result, err := s.ParentChildService.AssignChildToTeam(c.Request.Context(), c.Param("childId"), body.ClubID, body.TeamID, body.ParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) requestAdditionalParent(c *gin.Context) {
	body := api.AdditionalParentRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	rel, err := s.ParentChildService.RequestAdditionalParentLink(c.Request.Context(), body.RequestingParentID, c.Param("childId"), body.NewParentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (s *Server) checkChildPermission(c *gin.Context) {
	action := c.Query("action")
	if action == "" {
		badRequest(c)
		return
	}
	u, err := s.UserService.GetUser(c.Request.Context(), c.Param("childId"))
	if err != nil {
		respondError(c, err)
		return
	}
	allowed := s.ParentChildService.CheckChildPermissions(u, action)
	c.JSON(http.StatusOK, api.PermissionResponse{Allowed: allowed})
}

func (s *Server) getParentChildren(c *gin.Context) {
	children, err := s.ParentChildService.GetParentChildren(c.Request.Context(), c.Param("parentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, children)
}

func (s *Server) getParentPendingApprovals(c *gin.Context) {
	approvals, err := s.ParentChildService.GetParentPendingApprovals(c.Request.Context(), c.Param("parentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, approvals)
}

func (s *Server) requestParentChildLink(c *gin.Context) {
	body := api.LinkRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	rel, err := s.ParentChildService.RequestParentChildLink(c.Request.Context(), body.ParentID, string(body.ChildEmail))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rel)
}

func (s *Server) approveParentChildLink(c *gin.Context) {
	body := api.LinkDecisionRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	rel, err := s.ParentChildService.ApproveParentChildLink(c.Request.Context(), c.Param("relationshipId"), body.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

func (s *Server) declineParentChildLink(c *gin.Context) {
	body := api.LinkDecisionRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	if err := s.ParentChildService.DeclineParentChildLink(c.Request.Context(), c.Param("relationshipId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) requestChildSubscription(c *gin.Context) {
	body := api.SubscriptionRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	approval, err := s.ParentChildService.RequestChildSubscription(c.Request.Context(), body.ChildID, body.ClubID, body.PlanID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, approval)
}

func (s *Server) processSubscriptionApproval(c *gin.Context) {
	body := api.ProcessApprovalRequest{}
	if err := c.ShouldBindJSON(&body); err != nil || body.Approve == nil {
		badRequest(c)
		return
	}
	approval, err := s.ParentChildService.ProcessSubscriptionApproval(c.Request.Context(), c.Param("approvalId"), body.ParentID, *body.Approve, body.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, approval)
}

func (s *Server) initAttendanceSession(c *gin.Context) {
	clubID := c.Query("clubId")
	day, err := dayParam(c.Request.URL.Query(), "day", true)
	if err != nil || clubID == "" {
		badRequest(c)
		return
	}
	result, err := s.AttendanceService.InitSession(c.Request.Context(), c.Param("teamId"), clubID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) createAttendanceSession(c *gin.Context) {
	body := attendance.Session{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	editor := s.editorFor(c)
	created, err := s.AttendanceService.CreateSession(c.Request.Context(), body, editor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) getAttendanceSession(c *gin.Context) {
	session, err := s.AttendanceService.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) updateAttendanceSession(c *gin.Context) {
	body := api.UpdateAttendanceRequest{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	editor := attendance.Editor{ID: body.EditorID, Name: body.EditorName}
	session, err := s.AttendanceService.UpdateSession(
		c.Request.Context(),
		c.Param("sessionId"),
		api.ToAttendanceRecords(body.Records),
		editor,
		body.Description,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) deleteAttendanceSession(c *gin.Context) {
	if err := s.AttendanceService.DeleteSession(c.Request.Context(), c.Param("sessionId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getTeamAttendance(c *gin.Context) {
	query := c.Request.URL.Query()
	from, err := dayParam(query, "from", false)
	if err != nil {
		badRequest(c)
		return
	}
	to, err := dayParam(query, "to", false)
	if err != nil {
		badRequest(c)
		return
	}
	sessions, err := s.AttendanceService.GetTeamSessions(c.Request.Context(), c.Param("teamId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) getTeamAttendanceStats(c *gin.Context) {
	stats, err := s.AttendanceService.GetTeamStats(c.Request.Context(), c.Param("teamId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) exportTeamAttendance(c *gin.Context) {
	query := c.Request.URL.Query()
	from, err := dayParam(query, "from", false)
	if err != nil {
		badRequest(c)
		return
	}
	to, err := dayParam(query, "to", false)
	if err != nil {
		badRequest(c)
		return
	}
	object, err := s.AttendanceService.ExportTeamReport(c.Request.Context(), c.Param("teamId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ExportResponse{Object: object})
}

func (s *Server) getTeamJoinRequests(c *gin.Context) {
	requests, err := s.RequestService.ListTeamRequests(c.Request.Context(), c.Param("teamId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) approveJoinRequest(c *gin.Context) {
	if err := s.RequestService.Approve(c.Request.Context(), c.Param("requestId"), callerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) declineJoinRequest(c *gin.Context) {
	if err := s.RequestService.Decline(c.Request.Context(), c.Param("requestId"), callerID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getNotificationSettings(c *gin.Context) {
	settings, err := s.NotificationService.GetSettings(c.Request.Context(), c.Param("userId"), c.Param("clubId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) saveNotificationSettings(c *gin.Context) {
	body := notification.Settings{}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c)
		return
	}
	body.UserID = c.Param("userId")
	body.ClubID = c.Param("clubId")
	saved, err := s.NotificationService.SaveSettings(c.Request.Context(), body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) reconcile(c *gin.Context) {
	report, err := s.ParentChildService.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
