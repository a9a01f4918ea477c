package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Env 读取字符串环境变量，空值回退默认
func Env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// EnvInt 解析失败回退默认
func EnvInt(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return n
	}
	return def
}

// EnvBool 仅 "true"/"1" 视为开启
func EnvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return def
}

// EnvMillis 以毫秒整数读取时长
func EnvMillis(key string, def time.Duration) time.Duration {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && n >= 0 {
		return time.Duration(n) * time.Millisecond
	}
	return def
}
