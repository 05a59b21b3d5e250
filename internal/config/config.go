package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reciprocas/internal/report"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Sources  SourcesConfig  `toml:"sources"`
	Report   ReportConfig   `toml:"report"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir            string `toml:"data_dir"`
	DownloadTTLMinutes int    `toml:"download_ttl_minutes"`
	MaxUploadMB        int    `toml:"max_upload_mb"` // 单次上传请求体上限，0 表示不限
}

// DownloadTTL 下载令牌有效期
func (d DataConfig) DownloadTTL() time.Duration {
	if d.DownloadTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(d.DownloadTTLMinutes) * time.Minute
}

// SourcesConfig 输入工作簿定位
type SourcesConfig struct {
	RulesSheet      string `toml:"rules_sheet"`
	DirectoryMarker string `toml:"directory_marker"`
}

// ReportConfig 报表抬头默认值
type ReportConfig struct {
	SheetName    string `toml:"sheet_name"`
	Title        string `toml:"title"`
	Department   string `toml:"department"`
	Municipality string `toml:"municipality"`
	Entity       string `toml:"entity"`
	EntityCode   string `toml:"entity_code"`
	CutoffDate   string `toml:"cutoff_date"`
}

// Metadata 转为报表抬头
func (r ReportConfig) Metadata() report.Metadata {
	return report.Metadata{
		Department:   r.Department,
		Municipality: r.Municipality,
		Entity:       r.Entity,
		EntityCode:   r.EntityCode,
		CutoffDate:   r.CutoffDate,
	}
}

// Options 转为报表选项
func (r ReportConfig) Options() report.Options {
	return report.Options{SheetName: r.SheetName, Title: r.Title}
}

// PipelineConfig 对账流水线配置
type PipelineConfig struct {
	Workers int `toml:"workers"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
	Encoding    string `toml:"encoding"` // json | console
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	meta := report.DefaultMetadata()
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:            "data",
			DownloadTTLMinutes: 30,
			MaxUploadMB:        64,
		},
		Sources: SourcesConfig{
			RulesSheet:      "Cuentas al 100%",
			DirectoryMarker: "Directorio",
		},
		Report: ReportConfig{
			SheetName:    report.DefaultSheetName,
			Title:        report.DefaultTitle,
			Department:   meta.Department,
			Municipality: meta.Municipality,
			Entity:       meta.Entity,
			EntityCode:   meta.EntityCode,
			CutoffDate:   meta.CutoffDate,
		},
		Pipeline: PipelineConfig{
			Workers: 4,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
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

func configPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFromFile(configPath())
}

// LoadFromFile 从指定路径加载配置；文件不存在时使用默认配置
func LoadFromFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(config)
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// 环境变量覆盖（用于部署 / 本地运行）
func applyEnv(config *AppConfig) {
	if v := os.Getenv("RECIPROCAS_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("RECIPROCAS_CUTOFF_DATE"); v != "" {
		config.Report.CutoffDate = v
	}
}

// ResolveDataDir 数据目录绝对路径；相对路径基于可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及 exports 子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 报表导出目录
	if err := os.MkdirAll(filepath.Join(dataDir, "exports"), 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolveDataDir(config), subdir, filename)
}
