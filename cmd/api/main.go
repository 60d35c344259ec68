package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appfiscal "github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/application/fiscal"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/nuvemfiscal"
	infrapdf "github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/pdf"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/interfaces/http"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/config"
	"github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	notaRepo := postgres.NewNotaFiscalRepository(pool)
	empresaRepo := postgres.NewEmpresaFiscalRepository(pool)

	// Cliente do gateway fiscal: um provedor de token por ambiente, cache
	// interno, e a URL base escolhida por chamada.
	tokens := nuvemfiscal.NewTokenOAuth(
		cfg.Fiscal.URLAuth,
		nuvemfiscal.CredencialOAuth{ClientID: cfg.Fiscal.ClientIDProducao, ClientSecret: cfg.Fiscal.ClientSecretProducao},
		nuvemfiscal.CredencialOAuth{ClientID: cfg.Fiscal.ClientIDHomologacao, ClientSecret: cfg.Fiscal.ClientSecretHomologacao},
	)
	gateway := nuvemfiscal.NewClient(cfg.Fiscal.URLProducao, cfg.Fiscal.URLHomologacao, tokens)

	registrarUC := appfiscal.NewRegistrarEmpresaUseCase(empresaRepo, gateway, log)
	reconsultaUC := appfiscal.NewReconsultaUseCase(
		notaRepo, gateway,
		time.Duration(cfg.Fiscal.ReconsultaSegundos)*time.Second,
		log,
	)
	emissaoUC := appfiscal.NewEmissaoUseCase(notaRepo, empresaRepo, gateway, reconsultaUC, log)
	consultaUC := appfiscal.NewConsultaUseCase(notaRepo)
	cancelamentoUC := appfiscal.NewCancelamentoUseCase(notaRepo, gateway, log)
	artefatosUC := appfiscal.NewArtefatosUseCase(notaRepo, empresaRepo, gateway, infrapdf.NewGeradorRecibo(), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		RegistrarEmpresa: registrarUC,
		Emissao:          emissaoUC,
		Consulta:         consultaUC,
		Reconsulta:       reconsultaUC,
		Cancelamento:     cancelamentoUC,
		Artefatos:        artefatosUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação finalizada")
}
