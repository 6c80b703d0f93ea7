package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jyhwang/matzip-backend/config"
	"github.com/jyhwang/matzip-backend/internal/app/model"
	"github.com/jyhwang/matzip-backend/internal/app/repository"
	"github.com/jyhwang/matzip-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// XLSX 컬럼 순서: 상호명, 소개, 태그(세미콜론 구분), 경도, 위도
const minColumns = 5

func main() {
	// 명령줄 인자 확인
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	authorID := uint(1)
	if raw := os.Getenv("SEED_AUTHOR_ID"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			log.Fatal("Invalid SEED_AUTHOR_ID:", err)
		}
		authorID = uint(parsed)
	}

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Repository 생성
	storeRepo := repository.NewStoreRepository(db.GetDB())

	// XLSX 파일 읽기
	fmt.Printf("Reading XLSX file: %s\n", filePath)
	stores, err := readStoresFromXLSX(filePath, authorID)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total stores to import: %d\n", len(stores))

	// 사용자 확인
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 배치로 저장
	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := storeRepo.BulkCreate(stores, batchSize); err != nil {
		log.Fatal("Failed to bulk create stores:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total stores imported: %d\n", len(stores))
}

func readStoresFromXLSX(filePath string, authorID uint) ([]model.Store, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	// 첫 번째 시트 이름 가져오기
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var stores []model.Store
	seen := make(map[string]bool) // 중복 상호명 제거용
	skippedCount := 0
	invalidCoordCount := 0

	// 첫 행은 헤더이므로 스킵
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < minColumns {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		tagsRaw := strings.TrimSpace(row[2])
		lngRaw := strings.TrimSpace(row[3])
		latRaw := strings.TrimSpace(row[4])

		if name == "" || seen[name] {
			skippedCount++
			continue
		}
		seen[name] = true

		store := model.Store{
			AuthorID:    authorID,
			Name:        name,
			Description: description,
		}

		if tagsRaw != "" {
			for _, tag := range strings.Split(tagsRaw, ";") {
				if trimmed := strings.TrimSpace(tag); trimmed != "" {
					store.Tags = append(store.Tags, trimmed)
				}
			}
		}

		if lngRaw != "" && latRaw != "" {
			lng, lngErr := strconv.ParseFloat(lngRaw, 64)
			lat, latErr := strconv.ParseFloat(latRaw, 64)
			if lngErr != nil || latErr != nil {
				invalidCoordCount++
			} else {
				location := model.NewLocation(lng, lat)
				if location.Valid() {
					store.Location = location
				} else {
					invalidCoordCount++
				}
			}
		}

		stores = append(stores, store)
	}

	fmt.Printf("Parsed %d stores (skipped: %d, invalid coordinates: %d)\n",
		len(stores), skippedCount, invalidCoordCount)

	return stores, nil
}
