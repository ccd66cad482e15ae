package routes

import (
	"github.com/gin-gonic/gin"

	"campus_commute/internal/controllers"
)

func AuthRoutes(r *gin.Engine, auth *controllers.AuthController) {
	group := r.Group("/auth")
	{
		group.POST("/role", auth.ChooseRole)
		group.POST("/signup", auth.Signup)
		group.POST("/password", auth.SetPassword)
		group.POST("/otp/verify", auth.VerifyOTP)
		group.POST("/otp/resend", auth.ResendOTP)
		group.POST("/complete", auth.CompleteSignup)
		group.POST("/login", auth.Login)
		group.POST("/logout", auth.Logout)
		group.POST("/forgot-password", auth.ForgotPassword)
		group.POST("/reset-password", auth.ResetPassword)
		group.GET("/session", auth.Session)
	}
}
