package iot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/samseatt/vitaledge-pi-iot/pkg/common"
	"github.com/samseatt/vitaledge-pi-iot/pkg/models"
)

// rows written by older builds may carry a NULL transmit_status; those are unsent too
const undeliveredCondition = "(transmit_status IS NULL OR transmit_status <> ?)"

func storeLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameIOTCore,
		zap.String(common.LoggerFieldIOTCategory, common.LoggerCategoryIOTStore),
	)
}

func (i *IOT) insertReading(ctx context.Context, reading *models.Reading) (uint, error) {
	record := models.NewSensorRecord(reading)

	if err := i.Db.Conn.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}

	storeLogger().Info("Reading buffered",
		zap.Uint("record_id", record.ID),
		zap.String("timestamp", record.Timestamp),
	)

	return record.ID, nil
}

func (i *IOT) markDelivered(ctx context.Context, id uint) error {
	result := i.Db.Conn.WithContext(ctx).
		Model(&models.SensorRecord{}).
		Where("id = ?", id).
		Where(undeliveredCondition, models.TransmitStatusSent).
		Update("transmit_status", models.TransmitStatusSent)

	if result.Error != nil {
		return fmt.Errorf("mark record %d delivered: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		storeLogger().Debug("Record already delivered or unknown", zap.Uint("record_id", id))
		return nil
	}

	storeLogger().Info("Record marked delivered", zap.Uint("record_id", id))
	return nil
}

// fetchUndelivered returns unsent rows oldest first; limit <= 0 means every row.
func (i *IOT) fetchUndelivered(ctx context.Context, limit int) ([]models.SensorRecord, error) {
	var records []models.SensorRecord

	query := i.Db.Conn.WithContext(ctx).
		Where(undeliveredCondition, models.TransmitStatusSent).
		Order("id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("fetch undelivered records: %w", err)
	}
	return records, nil
}

func (i *IOT) fetchRecentWithin(ctx context.Context, window time.Duration) ([]models.TrendSample, error) {
	threshold := models.FormatTimestamp(i.now().Add(-window))

	var samples []models.TrendSample
	err := i.Db.Conn.WithContext(ctx).
		Model(&models.SensorRecord{}).
		Select("timestamp", "heart_rate", "temperature").
		Where("timestamp >= ?", threshold).
		Where("(heart_rate IS NOT NULL OR temperature IS NOT NULL)").
		Order("timestamp desc").
		Order("id desc").
		Scan(&samples).Error
	if err != nil {
		return nil, fmt.Errorf("fetch recent records: %w", err)
	}

	return samples, nil
}

func (i *IOT) countByStatus(ctx context.Context) (models.StatusCounts, error) {
	var counts models.StatusCounts

	if err := i.Db.Conn.WithContext(ctx).
		Model(&models.SensorRecord{}).
		Where("transmit_status = ?", models.TransmitStatusSent).
		Count(&counts.Sent).Error; err != nil {
		return counts, fmt.Errorf("count sent records: %w", err)
	}

	if err := i.Db.Conn.WithContext(ctx).
		Model(&models.SensorRecord{}).
		Where(undeliveredCondition, models.TransmitStatusSent).
		Count(&counts.Unsent).Error; err != nil {
		return counts, fmt.Errorf("count unsent records: %w", err)
	}

	return counts, nil
}

type IStoreImpl struct {
	iot *IOT
}

func (is *IStoreImpl) Insert(ctx context.Context, reading *models.Reading) (uint, error) {
	return is.iot.insertReading(ctx, reading)
}

func (is *IStoreImpl) MarkDelivered(ctx context.Context, id uint) error {
	return is.iot.markDelivered(ctx, id)
}

func (is *IStoreImpl) FetchUndelivered(ctx context.Context) ([]models.SensorRecord, error) {
	return is.iot.fetchUndelivered(ctx, 0)
}

func (is *IStoreImpl) PeekUndelivered(ctx context.Context, limit int) ([]models.SensorRecord, error) {
	return is.iot.fetchUndelivered(ctx, limit)
}

func (is *IStoreImpl) FetchRecentWithin(ctx context.Context, window time.Duration) ([]models.TrendSample, error) {
	return is.iot.fetchRecentWithin(ctx, window)
}

func (is *IStoreImpl) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	return is.iot.countByStatus(ctx)
}

func (i *IOT) GetIStore() IStore {
	return &IStoreImpl{iot: i}
}
