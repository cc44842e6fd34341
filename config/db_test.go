package config

import (
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestGetCollectionHonorsDBName(t *testing.T) {
	client, err := mongo.NewClient(options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	t.Setenv("DB_NAME", "talentlink_staging")
	coll := GetCollection(client, "users")
	if got := coll.Database().Name(); got != "talentlink_staging" {
		t.Fatalf("database = %q, want talentlink_staging", got)
	}

	t.Setenv("DB_NAME", "")
	coll = GetCollection(client, "users")
	if got := coll.Database().Name(); got != "talentlink" {
		t.Fatalf("database = %q, want default talentlink", got)
	}
}
