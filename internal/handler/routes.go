package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts every endpoint on r. Sessions must already be
// installed on r.
func (a *API) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", a.HealthCheck)

	group := r.Group("/api")
	{
		group.GET("/login", a.RedirectLogin)
		group.GET("/logout", a.RedirectLogout)

		cas := group.Group("/ugent-cas")
		cas.GET("/login", a.CASLogin)
		cas.GET("/callback", a.CASCallback)
		cas.GET("/logout", a.RequireLogin(), a.CASLogout)

		group.GET("/user", a.RequireLogin(), a.CurrentUser)
		group.GET("/users", a.RequireLogin(), a.SearchUsers)

		group.GET("/fsr", a.ListFSRs)
		group.POST("/fsr", a.RequireSuperAdmin(), a.LimitBody(), a.CreateFSR)

		fsr := group.Group("/fsr/:fsr", a.LoadFSR())
		{
			fsr.GET("/info", a.RequireAdmin(), a.GetFSR)
			fsr.PUT("/info", a.RequireAdmin(), a.UpdateFSR)
			fsr.GET("/logo", a.GetLogo)
			fsr.PUT("/logo", a.RequireAdmin(), a.LimitBody(), a.UpdateLogo)

			fsr.GET("/user/admin", a.RequireAdmin(), a.ListAdmins)
			fsr.PUT("/user/admin", a.RequireAdmin(), a.SetAdmin)

			fsr.GET("/media", a.ListMedia)
			fsr.GET("/media/info/:path", a.GetMediaInfo)
			fsr.GET("/media/:path", a.GetMediaContent)
			fsr.POST("/media", a.RequireAdmin(), a.LimitBody(), a.UploadMedia)
			fsr.DELETE("/media/:path", a.RequireAdmin(), a.DeleteMedia)

			fsr.GET("/pages", a.ListPages)
			fsr.POST("/page", a.RequireAdmin(), a.CreatePage)
			fsr.GET("/page/*rest", a.GetPage)
			fsr.PATCH("/page/*rest", a.RequireAdmin(), a.PatchPage)
			fsr.DELETE("/page/*rest", a.RequireAdmin(), a.DeletePage)
		}
	}
}
