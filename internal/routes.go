package internal

import (
	"net/http"

	"bjd/internal/controllers"
	"bjd/internal/providers"
	"bjd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/progress", http.HandlerFunc(apiController.GetProgress))
	routers.Post("/progress", http.HandlerFunc(apiController.SaveProgress))

	routers.Get("/config", http.HandlerFunc(apiController.GetMonthConfig))
	routers.Get("/month", http.HandlerFunc(apiController.GetMonthData))
	routers.Post("/month", http.HandlerFunc(apiController.SaveMonthData))

	routers.Get("/photos", http.HandlerFunc(apiController.GetMonthPhotos))
	routers.Post("/photos", http.HandlerFunc(apiController.SaveMonthPhotos))
	routers.Delete("/photos", http.HandlerFunc(apiController.DeleteMonthPhotos))

	routers.Get("/photo", http.HandlerFunc(apiController.GetPhoto))
	routers.Post("/photo", http.HandlerFunc(apiController.SavePhoto))
	routers.Delete("/photo", http.HandlerFunc(apiController.DeletePhoto))

	routers.Get("/firstvisit", http.HandlerFunc(apiController.IsFirstVisit))
	routers.Post("/visited", http.HandlerFunc(apiController.MarkVisited))

	routers.Get("/state", http.HandlerFunc(apiController.GetState))
	routers.Post("/editing", http.HandlerFunc(apiController.SetEditing))
	routers.Post("/share", http.HandlerFunc(apiController.SetShareModal))
	routers.Post("/clear", http.HandlerFunc(apiController.ClearAll))

	return routers
}
