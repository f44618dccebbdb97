// Package config 基于 viper 加载强类型配置，来源包括可选的配置文件、环境变量和默认值，
// 并按 validator 结构体标签校验。
//
// 指定了配置文件时默认监听文件变更并热加载，通过 OnChange 订阅变更；
// 一次性执行的程序（例如 selectpdf 命令行）可用 WithoutWatch 关闭监听。
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config 配置管理器，持有 T 的当前值
type Config[T any] struct {
	v        *viper.Viper
	value    *T
	mu       sync.RWMutex
	watchers []func(old, new T)
	watch    bool
}

// Option 配置选项
type Option[T any] func(*Config[T])

// WithDefaults 设置默认值。需要从环境变量读取的 key 必须有默认值，否则 viper 无法识别
func WithDefaults[T any](defaults map[string]any) Option[T] {
	return func(c *Config[T]) {
		for k, v := range defaults {
			c.v.SetDefault(k, v)
		}
	}
}

// WithEnv 绑定 PREFIX_KEY 形式的环境变量，嵌套 key 用 "_" 连接
func WithEnv[T any](prefix string) Option[T] {
	return func(c *Config[T]) {
		c.v.SetEnvPrefix(prefix)
		c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		c.v.AutomaticEnv()
	}
}

// WithOverrides 设置优先级高于配置文件和环境变量的值，通常来自命令行参数
func WithOverrides[T any](values map[string]any) Option[T] {
	return func(c *Config[T]) {
		for k, v := range values {
			c.v.Set(k, v)
		}
	}
}

// WithoutWatch 关闭配置文件变更监听
func WithoutWatch[T any]() Option[T] {
	return func(c *Config[T]) { c.watch = false }
}

// Load 读取配置文件（path 可为空），解码为 T 并校验，校验失败返回错误
func Load[T any](path string, opts ...Option[T]) (*Config[T], error) {
	v := viper.New()
	c := &Config[T]{v: v, watch: path != ""}

	for _, opt := range opts {
		opt(c)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	val, err := c.decode()
	if err != nil {
		return nil, err
	}
	c.value = &val

	if c.watch {
		c.startWatch()
	}
	return c, nil
}

// Validate 按 validator 标签校验 v
func Validate[T any](v T) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Set 覆盖单个 key 并重新校验，校验失败时恢复原值
func (c *Config[T]) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.v.Get(key)
	c.v.Set(key, value)
	val, err := c.decode()
	if err != nil {
		c.v.Set(key, prev)
		return err
	}
	c.value = &val
	return nil
}

// Get 返回当前配置的深拷贝
func (c *Config[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopy(*c.value)
}

// OnChange 注册配置变更回调，仅在热加载成功且内容变化时触发
func (c *Config[T]) OnChange(callback func(old, new T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, callback)
}

// Changed 判断配置是否变化
func Changed[T any](old, new T) bool {
	return !reflect.DeepEqual(old, new)
}

func (c *Config[T]) decode() (T, error) {
	var val T
	if err := c.v.Unmarshal(&val); err != nil {
		return val, fmt.Errorf("decode config: %w", err)
	}
	if err := Validate(val); err != nil {
		return val, err
	}
	return val, nil
}

func deepCopy[T any](src T) T {
	var dst T
	data, _ := json.Marshal(src)
	_ = json.Unmarshal(data, &dst)
	return dst
}

func (c *Config[T]) startWatch() {
	var (
		debounceTimer *time.Timer
		debounceMu    sync.Mutex
	)

	c.v.OnConfigChange(func(_ fsnotify.Event) {
		debounceMu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(100*time.Millisecond, c.handleConfigChange)
		debounceMu.Unlock()
	})

	c.v.WatchConfig()
}

func (c *Config[T]) handleConfigChange() {
	oldConfig := c.Get()

	newConfig, watchers, ok := c.reload()
	if !ok || !Changed(oldConfig, newConfig) {
		return
	}

	for _, cb := range watchers {
		func() {
			defer func() { _ = recover() }()
			cb(oldConfig, newConfig)
		}()
	}
}

// reload 在文件无法解析或校验失败时保留旧值
func (c *Config[T]) reload() (T, []func(old, new T), bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if err := c.v.ReadInConfig(); err != nil {
		return zero, nil, false
	}
	val, err := c.decode()
	if err != nil {
		return zero, nil, false
	}
	c.value = &val

	watchers := make([]func(old, new T), len(c.watchers))
	copy(watchers, c.watchers)

	return deepCopy(val), watchers, true
}
