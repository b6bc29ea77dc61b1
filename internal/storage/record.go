package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Record 存储的一条 JSON 记录
type Record = map[string]interface{}

func writeRecord(path string, record Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func readRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return record, nil
}

// readRecords 读取目录下所有记录，无法解析的文件跳过
func readRecords(dir string) ([]Record, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	records := make([]Record, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		record, err := readRecord(filepath.Join(dir, file.Name()))
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// sortLatestFirst 按 created_at 倒序，相同时按 id 排序
func sortLatestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ci, _ := records[i]["created_at"].(string)
		cj, _ := records[j]["created_at"].(string)
		if ci != cj {
			return ci > cj
		}
		ii, _ := records[i]["id"].(string)
		ij, _ := records[j]["id"].(string)
		return ii < ij
	})
}

func paginate(records []Record, offset, limit int) []Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []Record{}
	}
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return records[offset:end]
}
