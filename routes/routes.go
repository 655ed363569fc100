package routes

import (
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/controllers"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/middleware"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/services/websocket"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	teacherController := &controllers.TeacherController{}
	studentController := &controllers.StudentController{}
	timetableController := controllers.NewTimetableController()
	attendanceController := controllers.NewAttendanceController()
	reportController := controllers.NewReportController()
	notificationController := &controllers.NotificationController{}
	logController := controllers.NewLogController()
	healthController := controllers.NewHealthController(
		services.NewHealthService("Vivekananda Public School ERP API", "1.0.0"))

	// Health check - public, probes database and Redis
	app.Get("/health", healthController.GetHealth)

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/reset-password-token", authController.ResetPasswordWithToken)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	// Profile routes (authenticated users)
	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	// Logout - blacklist token for 24 hours
	protected.Post("/auth/logout", authController.Logout)

	// Password reset token generation (admin only)
	passwordReset := protected.Group("/password-reset", middleware.RequireAdmin())
	passwordReset.Post("/generate-token", authController.GeneratePasswordResetToken)

	// User registration (admin only)
	protected.Post("/users", middleware.RequireAdmin(), authController.Register)

	// Teacher management routes
	teachers := protected.Group("/teachers")
	teachers.Get("/", middleware.RequireTeacherOrAdmin(), teacherController.GetTeachers)
	teachers.Get("/:id", middleware.RequireTeacherOrAdmin(), teacherController.GetTeacher)
	teachers.Get("/:id/subjects", middleware.RequireTeacherOrAdmin(), teacherController.GetTeacherSubjects)
	teachers.Post("/", middleware.RequireAdmin(), teacherController.CreateTeacher)
	teachers.Put("/:id", middleware.RequireAdmin(), teacherController.UpdateTeacher)
	teachers.Delete("/:id", middleware.RequireAdmin(), teacherController.DeleteTeacher)

	// Student management routes
	students := protected.Group("/students")
	students.Get("/", middleware.RequireTeacherOrAdmin(), studentController.GetStudents)
	students.Get("/roster/:class_group", middleware.RequireTeacherOrAdmin(), studentController.GetClassRoster)
	students.Get("/:id", middleware.RequireTeacherOrAdmin(), studentController.GetStudent)
	students.Post("/", middleware.RequireAdmin(), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireAdmin(), studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireAdmin(), studentController.DeleteStudent)

	// Timetable routes - reads for any authenticated user, writes admin only
	timetable := protected.Group("/timetable")
	timetable.Get("/:class_group", timetableController.GetWeek)
	timetable.Get("/:class_group/slot", timetableController.GetSlot)
	timetable.Put("/:class_group/slot", middleware.RequireAdmin(), timetableController.PutSlot)

	// Attendance session routes
	attendance := protected.Group("/attendance", middleware.RequireTeacherOrAdmin())
	attendance.Get("/session/:class_group/:period", attendanceController.GetSession)
	attendance.Post("/session", attendanceController.SubmitSession)
	attendance.Put("/session", attendanceController.EditSession)

	// Report routes
	reports := protected.Group("/reports")
	reports.Get("/attendance", reportController.GetAttendanceSummary)
	reports.Get("/register/:class_group", middleware.RequireTeacherOrAdmin(), reportController.DownloadRegister)
	reports.Post("/register/:class_group/archive", middleware.RequireAdmin(), reportController.ArchiveRegister)

	// Notification management routes
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)
	notifications.Patch("/mark-all-read", notificationController.MarkAllAsRead)

	// Log management routes (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetActivityLogs)
	logs.Get("/archives", logController.GetArchives)
	logs.Get("/archives/:id/download", logController.DownloadArchive)
	logs.Post("/flush-cache", logController.FlushLogs)

	// WebSocket connection endpoint - token rides in the query string
	app.Get("/ws", controllers.WebSocketUpgrade, controllers.WebSocketHandler(wsHub))
}

// SetupStaticRoutes configures static file serving
func SetupStaticRoutes(app *fiber.App) {
	app.Static("/", "./public")
}
