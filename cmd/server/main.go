package main

import (
	"log"

	"github.com/safewalk/safewalk-backend-go/internal/api"
	"github.com/safewalk/safewalk-backend-go/internal/config"
	"github.com/safewalk/safewalk-backend-go/internal/database"
	"github.com/safewalk/safewalk-backend-go/internal/geocode"
	"github.com/safewalk/safewalk-backend-go/internal/handler"
	"github.com/safewalk/safewalk-backend-go/internal/heatmap"
	"github.com/safewalk/safewalk-backend-go/internal/repository"
	"github.com/safewalk/safewalk-backend-go/internal/scoring"
	"github.com/safewalk/safewalk-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	repo := repository.NewSQLiteAuditRepository(database.GetDB())

	params := heatmap.Params{
		GridResDegrees: cfg.GridResDegrees,
		HalfLifeHours:  cfg.HalfLifeHours,
		KConf:          cfg.KConf,
		Heuristic:      cfg.Heuristic,
	}

	scorer := scoring.NewHeuristicScorer(cfg.Heuristic)
	auditSvc := service.NewAuditService(repo, scorer, cfg.GridResDegrees)
	heatmapSvc := service.NewHeatmapService(repo, params)
	routeSvc := service.NewRouteService(heatmapSvc, cfg.StepMeters, cfg.DetourMeters, cfg.MaxNearestMeters, cfg.GridResDegrees)
	geocoder := geocode.NewClient(cfg.NominatimURL, cfg.UserAgent)

	// 导入历史审核数据
	if cfg.HistoricalCSV != "" {
		if _, err := auditSvc.ImportCSV(cfg.HistoricalCSV); err != nil {
			log.Printf("Historical CSV import failed: %v", err)
		}
	}

	// 初始化路由
	router := api.SetupRouter(cfg, api.Handlers{
		Audit:   handler.NewAuditHandler(auditSvc),
		Heatmap: handler.NewHeatmapHandler(heatmapSvc, geocoder),
		Route:   handler.NewRouteHandler(routeSvc),
	})

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
