package main

import (
	"log"

	"canteen/internal/config"
	"canteen/internal/gateway"
	"canteen/internal/handler"
	"canteen/internal/infra/db"
	infraRepo "canteen/internal/infra/repository"
	"canteen/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"canteen/internal/domain/model"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Canteen{},
		&model.MenuConfiguration{},
		&model.Menu{},
		&model.Item{},
		&model.Pricing{},
		&model.MenuItem{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.PaymentEvent{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	menuConfigRepo := infraRepo.NewMenuConfigurationGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//決済ゲートウェイ
	gwClient := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayClientID, cfg.GatewayClientSecret)

	//Usecase生成
	cartUC := usecase.NewCartUsecase(txManager, cartRepo, cartItemRepo, itemRepo, menuConfigRepo)
	orderUC := usecase.NewOrderUsecase(txManager, cfg.BaseURL, cfg.GatewayPercentage)
	paymentUC := usecase.NewPaymentUsecase(txManager, userRepo, gwClient, cfg.GatewayReturnURL, cfg.GatewayNotifyURL)

	//Handler生成＋ルート登録
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	handler.NewCartHandler(cartUC).RegisterRoutes(e, cfg)
	handler.NewOrderHandler(orderUC).RegisterRoutes(e, cfg)
	handler.NewPaymentHandler(paymentUC).RegisterRoutes(e, cfg)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
