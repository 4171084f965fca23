package errors

import "errors"

// ── 存储层共享错误（Repository 与 Service 之间的约定） ──

var (
	// ErrCapacityExceeded 场次在原子检查时已满，未写入任何记录
	ErrCapacityExceeded = errors.New("该场次名额已满")

	// ErrDuplicateActive 同一用户在同一场次已存在有效预约
	ErrDuplicateActive = errors.New("同一场次已存在有效预约")

	// ErrTransient 存储不可达、超时或事务被数据库中止，可安全重试
	ErrTransient = errors.New("存储暂时不可用，请稍后重试")
)
