package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"Spotmap-App/internal/domain/model"
)

// MemorySeed メモリストアに投入する初期データ
type MemorySeed struct {
	Imports map[string]SeedImport `json:"imports"`
	Edits   []SeedEdit            `json:"edits"`
	Users   []SeedUser            `json:"users"`
}

type SeedImport struct {
	Job    model.ImportJob              `json:"job"`
	Chunks map[string]model.ImportChunk `json:"chunks"`
}

type SeedEdit struct {
	SpotID string                 `json:"spot_id"`
	EditID string                 `json:"edit_id"`
	Data   map[string]interface{} `json:"data"`
}

type SeedUser struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// MemoryRepositories メモリバックエンドのリポジトリ一式
type MemoryRepositories struct {
	Imports      *MemoryImportsRepository
	Spots        *MemorySpotsRepository
	Edits        *MemoryEditsRepository
	Contributors *MemoryContributorsRepository
}

// LoadMemorySeedFile JSONファイルを読み込んでメモリストアに投入する
func LoadMemorySeedFile(ctx context.Context, path string, repos MemoryRepositories) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("シードファイルの読み込み失敗: %w", err)
	}
	var seed MemorySeed
	if err := json.Unmarshal(b, &seed); err != nil {
		return fmt.Errorf("シードファイルの解析失敗: %w", err)
	}
	return seed.Apply(ctx, repos)
}

// Apply シードをストアに書き込む。編集先のスポットが無ければ空のドキュメントを作る
func (s *MemorySeed) Apply(ctx context.Context, repos MemoryRepositories) error {
	importIDs := make([]string, 0, len(s.Imports))
	for id := range s.Imports {
		importIDs = append(importIDs, id)
	}
	sort.Strings(importIDs)

	for _, importID := range importIDs {
		imp := s.Imports[importID]
		job := imp.Job
		job.ID = importID
		if job.Status == "" {
			job.Status = model.ImportStatusPending
		}
		if job.ChunkCountTotal == 0 {
			job.ChunkCountTotal = len(imp.Chunks)
		}
		if err := repos.Imports.CreateJob(ctx, &job); err != nil {
			return fmt.Errorf("ジョブ %s の投入失敗: %w", importID, err)
		}
		for chunkID, chunk := range imp.Chunks {
			chunk.ID = chunkID
			if chunk.Status == "" {
				chunk.Status = model.ChunkStatusPending
			}
			if chunk.SpotCount == 0 {
				chunk.SpotCount = len(chunk.Spots)
			}
			if err := repos.Imports.CreateChunk(ctx, importID, &chunk); err != nil {
				return fmt.Errorf("チャンク %s/%s の投入失敗: %w", importID, chunkID, err)
			}
		}
	}

	for _, u := range s.Users {
		if err := repos.Contributors.Save(ctx, &model.Contributor{UserID: u.UserID, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}); err != nil {
			return fmt.Errorf("投稿者 %s の投入失敗: %w", u.UserID, err)
		}
	}

	for _, e := range s.Edits {
		if _, err := repos.Spots.GetByID(ctx, e.SpotID); err != nil {
			if err := repos.Spots.CreatePlaceholder(ctx, e.SpotID); err != nil {
				return err
			}
		}
		if err := repos.Edits.Create(ctx, e.SpotID, e.EditID, e.Data); err != nil {
			return fmt.Errorf("編集 %s/%s の投入失敗: %w", e.SpotID, e.EditID, err)
		}
	}
	return nil
}
