package translation

import "errors"

// 包级错误定义
var (
	// ErrNoLines 输入不包含任何行
	ErrNoLines = errors.New("no input lines to translate")

	// ErrAllTiersFailed 所有提供商层级均失败（本地词典正常时不应出现）
	ErrAllTiersFailed = errors.New("all provider tiers failed")

	// ErrPoolClosed 密钥池已关闭
	ErrPoolClosed = errors.New("key pool is closed")

	// ErrNoActiveCredentials 池中没有可用凭据
	ErrNoActiveCredentials = errors.New("no active credentials in pool")
)
