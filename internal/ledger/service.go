package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service 是互动台账的唯一入口。持久化状态只能通过这里的操作读写，
// 策略引擎不允许直接摸表。
//
// 每个操作都在自己的短事务里完成并提交，事务从不跨越设备操作或休眠，
// 多台设备的引擎并发使用同一个台账文件时不会互相拖住。
// 每台设备只写自己serial的行，跨设备干扰在结构上就不存在。
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewService 创建台账服务。
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger, now: time.Now}
}

// dayKey 把时刻归一成天粒度的键。
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// OpenRoomVisit 开启一次直播间拜访：
//   - 按(serial, account)对LiveRoomRecord做upsert，再次进入视为全新拜访，互动标志全部清零；
//   - 按(serial, account, 今天)对InteractionStats做upsert，刷新enter_time并清空leave_time。
//
// 返回直播间记录的ID用于关联。
func (s *Service) OpenRoomVisit(serial, nickname, account string) (uint, error) {
	now := s.now()
	day := dayKey(now)

	var recordID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var rec LiveRoomRecord
		err := tx.Where("serial = ? AND streamer_account = ?", serial, account).First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = LiveRoomRecord{
				Serial:           serial,
				StreamerNickname: nickname,
				StreamerAccount:  account,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("创建直播间记录失败: %w", err)
			}
		case err != nil:
			return err
		default:
			// 新的一次拜访，清零上次拜访留下的互动标志
			updates := map[string]any{
				"streamer_nickname":  nickname,
				"has_liked":          false,
				"has_commented":      false,
				"has_followed":       false,
				"has_not_interested": false,
			}
			if err := tx.Model(&rec).Updates(updates).Error; err != nil {
				return fmt.Errorf("重置直播间记录失败: %w", err)
			}
		}
		recordID = rec.ID

		var stats InteractionStats
		err = tx.Where("serial = ? AND live_account = ? AND day = ?", serial, account, day).First(&stats).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			stats = InteractionStats{
				Serial:      serial,
				LiveAccount: account,
				Day:         day,
				EnterTime:   &now,
			}
			if err := tx.Create(&stats).Error; err != nil {
				return fmt.Errorf("创建互动统计失败: %w", err)
			}
		case err != nil:
			return err
		default:
			updates := map[string]any{
				"enter_time": now,
				"leave_time": nil,
			}
			if err := tx.Model(&stats).Updates(updates).Error; err != nil {
				return fmt.Errorf("刷新互动统计失败: %w", err)
			}
		}
		return nil
	})
	return recordID, err
}

// CloseRoomVisit 结束一次直播间拜访：给最近一条未关闭的日行写入leave_time。
// 幂等：没有未关闭的拜访时什么都不做，不算错误。
// 按存下来的day倒序寻址，跨零点的拜访关闭的仍是进入当天的那一行。
func (s *Service) CloseRoomVisit(serial, account string) error {
	now := s.now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		var stats InteractionStats
		err := tx.Where("serial = ? AND live_account = ? AND leave_time IS NULL", serial, account).
			Order("day DESC").First(&stats).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&stats).Update("leave_time", now).Error
	})
}

// RecordAction 记录一次即时互动：
// like/comment累加当天计数，follow/not_interested置粘性布尔。
// 当天还没有统计行时会先建行。
//
// 与ApplyVisitTotals的分工：引擎对计数类只走ApplyVisitTotals（拜访结束时一次性合并），
// 对粘性布尔只走这里（动作发生的当时落库）。两条路径互不重叠，杜绝重复计数。
func (s *Service) RecordAction(serial, account string, kind ActionKind) error {
	day := dayKey(s.now())

	var column string
	switch kind {
	case ActionLike:
		column = "likes_count"
	case ActionComment:
		column = "comments_count"
	case ActionFollow:
		column = "has_followed"
	case ActionNotInterested:
		column = "has_not_interested"
	default:
		return fmt.Errorf("未知的互动类型: %s", kind)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var stats InteractionStats
		err := tx.Where("serial = ? AND live_account = ? AND day = ?", serial, account, day).First(&stats).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stats = InteractionStats{Serial: serial, LiveAccount: account, Day: day}
			switch kind {
			case ActionLike:
				stats.LikesCount = 1
			case ActionComment:
				stats.CommentsCount = 1
			case ActionFollow:
				stats.HasFollowed = true
			case ActionNotInterested:
				stats.HasNotInterested = true
			}
			return tx.Create(&stats).Error
		}
		if err != nil {
			return err
		}

		switch kind {
		case ActionLike, ActionComment:
			return tx.Model(&stats).Update(column, gorm.Expr(column+" + 1")).Error
		default:
			// 粘性布尔只会false→true，重复置位无害
			return tx.Model(&stats).Update(column, true).Error
		}
	})
}

// ApplyVisitTotals 把一次拜访期间累计的互动数合并进当天的统计行：
// 计数做加法，关注做OR；同时把结果布尔镜像到该主播最近的直播间记录上
// （has_liked=likes>0，has_commented=comments>0，has_followed取本次拜访的值）。
//
// 找不到(serial, account, nickname)的直播间记录时记一条日志直接返回，
// 这是文档化的no-op而不是错误：没有开过拜访就没有可归属的对象。
func (s *Service) ApplyVisitTotals(serial, account, nickname string, likes, comments int, followed bool) error {
	var rec LiveRoomRecord
	err := s.db.Where("serial = ? AND streamer_account = ? AND streamer_nickname = ?", serial, account, nickname).
		Order("created_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("未找到直播间记录，放弃合并拜访数据",
			zap.String("serial", serial),
			zap.String("account", account),
			zap.String("nickname", nickname))
		return nil
	}
	if err != nil {
		return err
	}

	now := s.now()
	day := dayKey(now)

	return s.db.Transaction(func(tx *gorm.DB) error {
		// 优先归属到未关闭的拜访行（可能是昨天开启、跨零点的那一行），
		// 没有未关闭的行时落到今天
		var stats InteractionStats
		err := tx.Where("serial = ? AND live_account = ? AND leave_time IS NULL", serial, account).
			Order("day DESC").First(&stats).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = tx.Where("serial = ? AND live_account = ? AND day = ?", serial, account, day).First(&stats).Error
		}
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			stats = InteractionStats{
				Serial:        serial,
				LiveAccount:   account,
				Day:           day,
				LikesCount:    likes,
				CommentsCount: comments,
				HasFollowed:   followed,
			}
			if err := tx.Create(&stats).Error; err != nil {
				return fmt.Errorf("创建互动统计失败: %w", err)
			}
		case err != nil:
			return err
		default:
			updates := map[string]any{
				"likes_count":    gorm.Expr("likes_count + ?", likes),
				"comments_count": gorm.Expr("comments_count + ?", comments),
				"has_followed":   stats.HasFollowed || followed,
			}
			if err := tx.Model(&stats).Updates(updates).Error; err != nil {
				return fmt.Errorf("合并互动统计失败: %w", err)
			}
		}

		// 镜像到最近的直播间记录
		mirror := map[string]any{
			"has_liked":     likes > 0,
			"has_commented": comments > 0,
			"has_followed":  followed,
		}
		if err := tx.Model(&LiveRoomRecord{}).Where("id = ?", rec.ID).Updates(mirror).Error; err != nil {
			return fmt.Errorf("更新直播间记录失败: %w", err)
		}
		return nil
	})
}

// LogOperation 追加一条操作流水。持久化失败只记日志，永远不向调用方报错：
// 流水是审计用途，不能因为它阻断行为循环。
func (s *Service) LogOperation(serial, opType, result, account, details, enterType string) {
	if enterType != EnterTypeLive && enterType != EnterTypeVideo {
		enterType = EnterTypeLive
	}
	entry := OperationLog{
		Serial:          serial,
		OperationType:   opType,
		OperationResult: result,
		LiveAccount:     account,
		Details:         details,
		EnterType:       enterType,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Warn("记录操作流水失败",
			zap.String("serial", serial),
			zap.String("operation", opType),
			zap.Error(err))
	}
}

// UpsertVideoInfo 按(serial, account)维护一条视频信息：
// 不存在时生成UUID插入，存在时更新标题和is_game。
func (s *Service) UpsertVideoInfo(serial, account, title string, isGame bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var info VideoDataInfo
		err := tx.Where("serial = ? AND streamer_account = ?", serial, account).First(&info).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			info = VideoDataInfo{
				VideoID:         uuid.NewString(),
				Serial:          serial,
				StreamerAccount: account,
				VideoTitle:      title,
				IsGame:          isGame,
			}
			return tx.Create(&info).Error
		}
		if err != nil {
			return err
		}
		updates := map[string]any{
			"video_title": title,
			"is_game":     isGame,
		}
		return tx.Model(&info).Updates(updates).Error
	})
}

// OperationLogPage 是操作流水分页查询的结果。
type OperationLogPage struct {
	Total       int64          `json:"total"`
	TotalPages  int            `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
	PageSize    int            `json:"page_size"`
	Logs        []OperationLog `json:"logs"`
}

// GetOperationLogs 分页查询指定设备的操作流水，按时间倒序。
func (s *Service) GetOperationLogs(serial string, page, pageSize int) (*OperationLogPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int64
	if err := s.db.Model(&OperationLog{}).Where("serial = ?", serial).Count(&total).Error; err != nil {
		return nil, err
	}

	var logs []OperationLog
	err := s.db.Where("serial = ?", serial).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return &OperationLogPage{
		Total:       total,
		TotalPages:  int((total + int64(pageSize) - 1) / int64(pageSize)),
		CurrentPage: page,
		PageSize:    pageSize,
		Logs:        logs,
	}, nil
}
