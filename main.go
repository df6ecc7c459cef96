package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/collections"
	"romplanner/commands"
	"romplanner/config"
	"romplanner/handlers"
	"romplanner/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDev:     cfg.App.Dev,
		DefaultDataDir: cfg.App.DataDir,
	})

	renderOpts := services.DefaultRenderOptions()
	renderOpts.CurrencySymbol = cfg.Export.CurrencySymbol

	// Schema must exist for commands that run without the server.
	app.OnBootstrap().BindFunc(func(be *core.BootstrapEvent) error {
		if err := be.Next(); err != nil {
			return err
		}
		collections.Setup(be.App)
		if err := collections.MigrateRateUnits(be.App); err != nil {
			log.Printf("Warning: rate unit migration failed: %v", err)
		}
		return nil
	})

	app.RootCmd.AddCommand(commands.NewExportCommand(app, renderOpts))

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if cfg.Seed.Demo {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.RequestLogger(app))

		se.Router.GET("/", handlers.HandleHome(cfg.App.Name))
		se.Router.GET("/healthz", handlers.HandleHealth)
		se.Router.GET("/options", handlers.HandleOptions(app))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.POST("/projects", handlers.HandleProjectCreate(app))
		se.Router.GET("/projects/{id}", handlers.HandleProjectView(app))
		se.Router.PUT("/projects/{id}", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app))
		se.Router.GET("/projects/{id}/summary", handlers.HandleProjectSummary(app))

		// ── Rates ────────────────────────────────────────────────
		se.Router.GET("/rates", handlers.HandleRateList(app))
		se.Router.POST("/rates", handlers.HandleRateSave(app))
		se.Router.PUT("/rates/{id}", handlers.HandleRateUpdate(app))
		se.Router.DELETE("/rates/{id}", handlers.HandleRateDelete(app))

		// ── Tasks (sequence must be registered before {id}) ──────
		se.Router.GET("/tasks", handlers.HandleTaskList(app))
		se.Router.POST("/tasks", handlers.HandleTaskCreate(app))
		se.Router.PUT("/tasks/sequence", handlers.HandleTaskSequenceUpdate(app))
		se.Router.PUT("/tasks/{id}", handlers.HandleTaskUpdate(app))
		se.Router.DELETE("/tasks/{id}", handlers.HandleTaskDelete(app))

		// ── Material items ───────────────────────────────────────
		se.Router.GET("/material_items", handlers.HandleMaterialItemList(app))
		se.Router.POST("/material_items", handlers.HandleMaterialItemCreate(app))
		se.Router.GET("/material_items/template", handlers.HandleMaterialTemplateDownload(app))
		se.Router.POST("/material_items/import/errors", handlers.HandleMaterialImportErrorReport(app))
		se.Router.PUT("/material_items/{id}", handlers.HandleMaterialItemUpdate(app))
		se.Router.DELETE("/material_items/{id}", handlers.HandleMaterialItemDelete(app))
		se.Router.POST("/projects/{id}/material_items/import", handlers.HandleMaterialImport(app))

		// ── Global materials ─────────────────────────────────────
		se.Router.GET("/global_materials", handlers.HandleGlobalMaterialList(app))
		se.Router.POST("/global_materials", handlers.HandleGlobalMaterialSave(app))
		se.Router.PUT("/global_materials/{id}", handlers.HandleGlobalMaterialUpdate(app))
		se.Router.DELETE("/global_materials/{id}", handlers.HandleGlobalMaterialDelete(app))

		// ── Export ───────────────────────────────────────────────
		se.Router.GET("/export/project/{id}/excel", handlers.HandleProjectExportExcel(app, renderOpts))
		se.Router.GET("/export/project/{id}/pdf", handlers.HandleProjectExportPDF(app, renderOpts))
		se.Router.GET("/export/project/{id}/json", handlers.HandleProjectExportJSON(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
