package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Spotmap-App/internal/config"
	"Spotmap-App/internal/database"
	"Spotmap-App/internal/domain/repository"
	"Spotmap-App/internal/domain/service"
	"Spotmap-App/internal/handler"
	"Spotmap-App/internal/infrastructure/docstore"
	"Spotmap-App/internal/infrastructure/firestore"
	"Spotmap-App/internal/infrastructure/storage"
	"Spotmap-App/internal/logger"
	repoImpl "Spotmap-App/internal/repository"
	"Spotmap-App/internal/usecase"
)

// repositories バックエンドごとに組み立てたリポジトリ一式
type repositories struct {
	imports        repository.ImportsRepository
	spots          repository.SpotsRepository
	edits          repository.EditsRepository
	contributors   repository.ContributorsRepository
	leaderboards   repository.LeaderboardsRepository
	clusterTrigger repository.ClusterTrigger
	close          func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, zap.String("service", "Spotmap-App"))
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	ctx := context.Background()

	repos, err := buildRepositories(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("リポジトリの初期化に失敗", zap.Error(err))
	}
	defer repos.close() //nolint:errcheck

	blobStore, err := buildBlobStore(cfg, zl)
	if err != nil {
		zl.Fatal("ストレージの初期化に失敗", zap.Error(err))
	}

	coordinator := service.NewImportCoordinator(repos.imports, repos.clusterTrigger, zl.Named("coordinator"))
	processor := service.NewChunkProcessor(repos.imports, repos.spots, coordinator, cfg.JobCacheTTL, zl.Named("chunk"))
	ledger := service.NewContributionLedger(repos.contributors, repos.leaderboards, zl.Named("ledger"))
	reconciler := service.NewEditReconciler(repos.spots, repos.edits, blobStore, ledger, zl.Named("edits"))

	triggerUseCase := usecase.NewTriggerUseCase(processor, coordinator, reconciler, zl)
	runnerUseCase := usecase.NewImportRunnerUseCase(repos.imports, processor, cfg.ImportConcurrency, zl.Named("runner"))
	triggerHandler := handler.NewTriggerHandler(triggerUseCase, runnerUseCase, zl)
	leaderboardHandler := handler.NewLeaderboardHandler(usecase.NewLeaderboardUseCase(ledger), zl)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(triggerHandler, leaderboardHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("🚀 Spotmap-App server starting", zap.String("port", cfg.Port), zap.String("backend", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("サーバーの起動に失敗", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("シャットダウンに失敗", zap.Error(err))
	}
	zl.Info("サーバーを停止しました")
}

func buildRepositories(ctx context.Context, cfg *config.Config, zl *zap.Logger) (*repositories, error) {
	if cfg.StoreBackend == config.StoreBackendMemory {
		store := docstore.New(docstore.WithMaxAttempts(cfg.TxMaxAttempts))
		memory := repoImpl.MemoryRepositories{
			Imports:      repoImpl.NewMemoryImportsRepository(store),
			Spots:        repoImpl.NewMemorySpotsRepository(store),
			Edits:        repoImpl.NewMemoryEditsRepository(store),
			Contributors: repoImpl.NewMemoryContributorsRepository(store),
		}
		if cfg.MemorySeedFile != "" {
			if err := repoImpl.LoadMemorySeedFile(ctx, cfg.MemorySeedFile, memory); err != nil {
				return nil, err
			}
			zl.Info("📄 シードデータを投入しました", zap.String("file", cfg.MemorySeedFile))
		}
		return &repositories{
			imports:        memory.Imports,
			spots:          memory.Spots,
			edits:          memory.Edits,
			contributors:   memory.Contributors,
			leaderboards:   repoImpl.NewMemoryLeaderboardsRepository(store),
			clusterTrigger: repoImpl.NewMemoryClusterTrigger(store),
			close:          func() error { return nil },
		}, nil
	}

	fc, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile, zl)
	if err != nil {
		return nil, err
	}
	client := fc.GetClient()
	return &repositories{
		imports:        repoImpl.NewFirestoreImportsRepository(client, cfg.TxMaxAttempts),
		spots:          repoImpl.NewFirestoreSpotsRepository(client),
		edits:          repoImpl.NewFirestoreEditsRepository(client),
		contributors:   repoImpl.NewFirestoreContributorsRepository(client, cfg.TxMaxAttempts),
		leaderboards:   repoImpl.NewFirestoreLeaderboardsRepository(client, cfg.TxMaxAttempts),
		clusterTrigger: repoImpl.NewFirestoreClusterTrigger(client),
		close:          fc.Close,
	}, nil
}

func buildBlobStore(cfg *config.Config, zl *zap.Logger) (repository.BlobStore, error) {
	if !cfg.BlobStoreEnabled() {
		zl.Warn("⚠️ Supabase Storage が未設定のためメディア削除は記録のみ行います")
		return storage.NewDiscardBlobStore(zl.Named("storage")), nil
	}
	client, err := database.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	if err != nil {
		return nil, err
	}
	return storage.NewSupabaseBlobStore(client, cfg.StorageBucket, zl.Named("storage"))
}
