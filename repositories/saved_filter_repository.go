package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/models"
)

const savedFilterCacheTTL = 30 * time.Minute

// SavedFilterRepository stores each admin's saved account-listing filters.
type SavedFilterRepository struct {
	filters *mongo.Collection
	redis   *redis.Client
}

func NewSavedFilterRepository(db *mongo.Client, redisClient *redis.Client) *SavedFilterRepository {
	return &SavedFilterRepository{
		filters: config.GetCollection(db, "savedFilters"),
		redis:   redisClient,
	}
}

// List returns the admin's saved filters, newest first.
func (r *SavedFilterRepository) List(adminID primitive.ObjectID) ([]models.SavedFilter, error) {
	if cached := r.fromCache(adminID); cached != nil {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.filters.Find(ctx, bson.M{"adminId": adminID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	filters := []models.SavedFilter{}
	if err := cursor.All(ctx, &filters); err != nil {
		return nil, err
	}

	r.toCache(adminID, filters)
	return filters, nil
}

// Save stores a new filter under a generated id.
func (r *SavedFilterRepository) Save(adminID primitive.ObjectID, req models.SaveFilterRequest) (*models.SavedFilter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := models.SavedFilter{
		ID:         uuid.NewString(),
		AdminID:    adminID,
		Name:       req.Name,
		UserType:   req.UserType,
		Status:     req.Status,
		Categories: models.NormalizeCategories(req.Categories),
		CreatedAt:  time.Now(),
	}

	if _, err := r.filters.InsertOne(ctx, filter); err != nil {
		return nil, err
	}
	r.invalidate(adminID)
	return &filter, nil
}

// Delete removes one of the admin's filters. Filters belonging to another
// admin are invisible here, deleting them reports not found.
func (r *SavedFilterRepository) Delete(adminID primitive.ObjectID, filterID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.filters.DeleteOne(ctx, bson.M{"_id": filterID, "adminId": adminID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	r.invalidate(adminID)
	return nil
}

func (r *SavedFilterRepository) cacheKey(adminID primitive.ObjectID) string {
	return "savedFilters:" + adminID.Hex()
}

func (r *SavedFilterRepository) fromCache(adminID primitive.ObjectID) []models.SavedFilter {
	if r.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := r.redis.Get(ctx, r.cacheKey(adminID)).Result()
	if err != nil {
		return nil
	}
	var filters []models.SavedFilter
	if err := json.Unmarshal([]byte(raw), &filters); err != nil {
		return nil
	}
	return filters
}

func (r *SavedFilterRepository) toCache(adminID primitive.ObjectID, filters []models.SavedFilter) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(filters)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.redis.Set(ctx, r.cacheKey(adminID), data, savedFilterCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache saved filters for admin %s: %v", adminID.Hex(), err)
	}
}

func (r *SavedFilterRepository) invalidate(adminID primitive.ObjectID) {
	if r.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.redis.Del(ctx, r.cacheKey(adminID)).Err(); err != nil {
		log.Printf("Failed to invalidate saved filter cache for admin %s: %v", adminID.Hex(), err)
	}
}
