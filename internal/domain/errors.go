package domain

import "errors"

// 批量变更操作中会出现的业务错误。
// 草稿保存把这些错误吸收为单个护士的失败记录，
// 三个原子操作则把它们放大为整个事务的回滚。
var (
	ErrShiftConflict = errors.New("护士已被绑定到其他班别")
	ErrDraftNotFound = errors.New("找不到对应的排班草稿")
	ErrNurseNotFound = errors.New("护士不存在")
	ErrRoomNotFound  = errors.New("手术室不存在")
)
