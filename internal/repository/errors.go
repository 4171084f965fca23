package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "fitclub/pkg/errors"
)

// uniqueActiveReservationIndex 见迁移 000002：同一用户同一场次至多一条 active 预约
const uniqueActiveReservationIndex = "uq_reservations_active_user_occurrence"

// translateError 将驱动层错误归类为仓储层约定的错误
//
//   - 23505 命中部分唯一索引 → ErrDuplicateActive
//   - 22P02（非法 UUID 等）   → gorm.ErrRecordNotFound，按“记录不存在”处理
//   - 序列化失败 / 死锁 / 连接异常 / 超时 → ErrTransient（事务已整体回滚，可重试）
//
// 其余错误原样返回
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == uniqueActiveReservationIndex:
			return pkgerrors.ErrDuplicateActive
		case pgErr.Code == "22P02":
			return gorm.ErrRecordNotFound
		case isTransientCode(pgErr.Code):
			return fmt.Errorf("%w: %s %s", pkgerrors.ErrTransient, pgErr.Code, pgErr.Message)
		}
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", pkgerrors.ErrTransient, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", pkgerrors.ErrTransient, err)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", pkgerrors.ErrTransient, err)
	}

	return err
}

func isTransientCode(code string) bool {
	switch code {
	case "40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03", // lock_not_available
		"57014", // query_canceled（statement_timeout）
		"57P01", // admin_shutdown
		"53300": // too_many_connections
		return true
	}
	return strings.HasPrefix(code, "08") // connection_exception 类
}
