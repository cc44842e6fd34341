package repositories

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentlink-app/talentlink_backend/config"
	"github.com/talentlink-app/talentlink_backend/models"
)

const categoryCacheTTL = 10 * time.Minute

// CategoryRepository manages the per-scope category pools. Reads go through
// Redis when available; every write invalidates the scope's cache entry.
type CategoryRepository struct {
	categories *mongo.Collection
	users      *mongo.Collection
	redis      *redis.Client
}

func NewCategoryRepository(db *mongo.Client, redisClient *redis.Client) *CategoryRepository {
	return &CategoryRepository{
		categories: config.GetCollection(db, "categories"),
		users:      config.GetCollection(db, "users"),
		redis:      redisClient,
	}
}

// Get returns the category set for a scope. A scope that has never been
// written resolves to an empty set, not an error.
func (r *CategoryRepository) Get(scope string) (*models.CategorySet, error) {
	if cached := r.fromCache(scope); cached != nil {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var set models.CategorySet
	err := r.categories.FindOne(ctx, bson.M{"scope": scope}).Decode(&set)
	if err == mongo.ErrNoDocuments {
		set = models.CategorySet{Scope: scope, Names: []string{}}
	} else if err != nil {
		return nil, err
	}

	r.toCache(scope, &set)
	return &set, nil
}

// Add appends a new name to the scope's pool. Duplicate names, compared
// case-sensitively after trimming, fail with models.ErrDuplicateCategory.
func (r *CategoryRepository) Add(scope, name string) (*models.CategorySet, error) {
	set, err := r.Get(scope)
	if err != nil {
		return nil, err
	}
	if err := set.Add(name); err != nil {
		return nil, err
	}
	set.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = r.categories.UpdateOne(ctx,
		bson.M{"scope": scope},
		bson.M{"$set": bson.M{"names": set.Names, "updatedAt": set.UpdatedAt}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}
	r.invalidate(scope)
	return set, nil
}

// Remove deletes a name from the scope's pool. Accounts already tagged with
// the name keep the tag; the any-of filter simply stops offering it.
func (r *CategoryRepository) Remove(scope, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.categories.UpdateOne(ctx,
		bson.M{"scope": scope},
		bson.M{"$pull": bson.M{"names": name}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.ModifiedCount == 0 {
		return ErrNotFound
	}
	r.invalidate(scope)
	return nil
}

// SetUserCategories replaces an account's tags wholesale. Names are
// normalized but not checked against the scope pool: admins may tag with
// names that were since removed from the pool, those tags just stop
// matching filters.
func (r *CategoryRepository) SetUserCategories(userID primitive.ObjectID, names []string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if user.UserType != models.UserTypeCandidate && user.UserType != models.UserTypeAgent {
		return nil, ErrWrongUserType
	}

	normalized := models.NormalizeCategories(names)

	now := time.Now()
	if _, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"categories": normalized, "updatedAt": now}},
	); err != nil {
		return nil, err
	}

	user.Categories = normalized
	user.UpdatedAt = now
	user.Password = ""
	user.NormalizeApprovalStatus()
	return &user, nil
}

func (r *CategoryRepository) cacheKey(scope string) string {
	return "categories:" + scope
}

func (r *CategoryRepository) fromCache(scope string) *models.CategorySet {
	if r.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := r.redis.Get(ctx, r.cacheKey(scope)).Result()
	if err != nil {
		return nil
	}
	var set models.CategorySet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil
	}
	return &set
}

func (r *CategoryRepository) toCache(scope string, set *models.CategorySet) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(set)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.redis.Set(ctx, r.cacheKey(scope), data, categoryCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache category set for scope %s: %v", scope, err)
	}
}

func (r *CategoryRepository) invalidate(scope string) {
	if r.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.redis.Del(ctx, r.cacheKey(scope)).Err(); err != nil {
		log.Printf("Failed to invalidate category cache for scope %s: %v", scope, err)
	}
}
