package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	ETL      ETLConfig      `toml:"etl"`
	Insights InsightsConfig `toml:"insights"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ETLConfig 流水线可调参数
type ETLConfig struct {
	PreviewRows       int `toml:"preview_rows"`        // 预览输出的行数
	SampleSize        int `toml:"sample_size"`         // 类型推断抽样上限
	LookupColumnStart int `toml:"lookup_column_start"` // 可选连接列窗口起点（含）
	LookupColumnEnd   int `toml:"lookup_column_end"`   // 可选连接列窗口终点（不含）
	TopProducts       int `toml:"top_products"`        // 仪表盘 top 物料条数
	BOMDetailLimit    int `toml:"bom_detail_limit"`    // bom 分析明细条数上限
}

// InsightsConfig 建议生成阈值
type InsightsConfig struct {
	LowMatchRate     float64 `toml:"low_match_rate"`      // 低于该匹配率时提示复查键列，百分数
	HighNotFoundRate float64 `toml:"high_not_found_rate"` // 未命中占比告警阈值，百分数
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8000,
			DevMode:     false,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		ETL: ETLConfig{
			PreviewRows:       20,
			SampleSize:        100,
			LookupColumnStart: 1,
			LookupColumnEnd:   22,
			TopProducts:       10,
			BOMDetailLimit:    500,
		},
		Insights: InsightsConfig{
			LowMatchRate:     70,
			HighNotFoundRate: 10,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	// .env 先于环境变量覆盖读取，文件不存在时忽略
	_ = godotenv.Load()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			applyEnvOverrides(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnvOverrides(config)
	return config, info, nil
}

// applyEnvOverrides 环境变量覆盖（用于 E2E / 容器运行）
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("ETL_TOOL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("ETL_TOOL_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("ETL_TOOL_DEV_MODE"); v != "" {
		config.Server.DevMode = v == "1" || v == "true"
	}
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录及其子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
