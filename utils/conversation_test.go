package utils

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestConversationIDSymmetric(t *testing.T) {
	for i := 0; i < 50; i++ {
		a := primitive.NewObjectID()
		b := primitive.NewObjectID()
		if ConversationID(a, b) != ConversationID(b, a) {
			t.Fatalf("conversation id must be symmetric: %s vs %s",
				ConversationID(a, b), ConversationID(b, a))
		}
	}
}

func TestConversationIDFormat(t *testing.T) {
	a, err := primitive.ObjectIDFromHex("000000000000000000000001")
	if err != nil {
		t.Fatal(err)
	}
	b, err := primitive.ObjectIDFromHex("000000000000000000000002")
	if err != nil {
		t.Fatal(err)
	}

	id := ConversationID(b, a)
	want := "conv_000000000000000000000001_000000000000000000000002"
	if id != want {
		t.Fatalf("expected %q got %q", want, id)
	}
	if !strings.HasPrefix(id, "conv_") {
		t.Fatalf("expected conv_ prefix, got %q", id)
	}
}

func TestConversationIDDistinctPairs(t *testing.T) {
	ids := make([]primitive.ObjectID, 10)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}

	seen := make(map[string][2]primitive.ObjectID)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			key := ConversationID(ids[i], ids[j])
			if prev, ok := seen[key]; ok {
				t.Fatalf("collision between pair (%s,%s) and (%s,%s)",
					prev[0].Hex(), prev[1].Hex(), ids[i].Hex(), ids[j].Hex())
			}
			seen[key] = [2]primitive.ObjectID{ids[i], ids[j]}
		}
	}
}
