package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSDL = `
schema { query: Query subscription: Subscription }

type Query {
	hero: Character
	reviews(limit: Int = 10): [Review] @batched
}

type Subscription {
	chat: ChatEvents @virtual
}

type ChatEvents {
	messageReceived(room: String): Message
}

type Message {
	id: ID!
	text: String
}

interface Character {
	id: ID!
	name: String
}

type Human implements Character {
	id: ID!
	name: String
	homePlanet: String
}

type Droid implements Character {
	id: ID!
	name: String
	primaryFunction: String
}

union SearchResult = Human | Droid

type Review {
	stars: Int!
	commentary: String
}
`

func TestBuildFromSDL(t *testing.T) {
	s, err := BuildFromSDL(testSDL)
	require.NoError(t, err)

	require.NotNil(t, s.GetQueryType())
	require.NotNil(t, s.GetSubscriptionType())
	assert.Nil(t, s.GetMutationType())

	hero := s.GetQueryType().FindField("hero")
	require.NotNil(t, hero)
	assert.Equal(t, "Character", hero.Type.GetNamedType())
	assert.False(t, hero.Batched)

	reviews := s.GetQueryType().FindField("reviews")
	require.NotNil(t, reviews)
	assert.True(t, reviews.Batched, "@batched must mark the field for batch resolution")
	assert.True(t, IsList(reviews.Type))
	require.Len(t, reviews.Arguments, 1)
	assert.Equal(t, int64(10), reviews.Arguments[0].DefaultValue)

	chat := s.GetSubscriptionType().FindField("chat")
	require.NotNil(t, chat)
	assert.True(t, chat.Virtual, "@virtual must mark routing segments")
}

func TestBuildFromSDLBuiltins(t *testing.T) {
	s, err := BuildFromSDL(`type Query { ok: Boolean }`)
	require.NoError(t, err)

	for _, name := range []string{"String", "Int", "Float", "Boolean", "ID"} {
		gt := s.FindGraphType(name)
		require.NotNil(t, gt, name)
		assert.Equal(t, TypeKindScalar, gt.Kind)
		assert.True(t, gt.IsLeaf())
	}
	require.NotNil(t, s.FindDirective("skip"))
	require.NotNil(t, s.FindDirective("include"))
}

func TestSatisfies(t *testing.T) {
	s, err := BuildFromSDL(testSDL)
	require.NoError(t, err)

	human := s.FindGraphType("Human")
	require.NotNil(t, human)

	assert.True(t, s.Satisfies(human, "Human"))
	assert.True(t, s.Satisfies(human, "Character"))
	assert.True(t, s.Satisfies(human, "SearchResult"))
	assert.False(t, s.Satisfies(human, "Droid"))
	assert.True(t, s.Satisfies(human, ""), "empty condition applies to any type")
}

func TestTypeRefHelpers(t *testing.T) {
	listOfNonNull := ListType(NonNullType(NamedType("Int")))
	nonNullList := NonNullType(ListType(NamedType("Int")))

	assert.True(t, IsList(listOfNonNull))
	assert.True(t, IsList(nonNullList))
	assert.True(t, IsNonNull(nonNullList))
	assert.False(t, IsNonNull(listOfNonNull))

	assert.Equal(t, "Int", listOfNonNull.GetNamedType())
	assert.Equal(t, "[Int!]", listOfNonNull.String())
	assert.Equal(t, "[Int]!", nonNullList.String())

	elem := nonNullList.UnwrapList()
	assert.Equal(t, "Int", elem.GetNamedType())
	assert.False(t, IsList(elem))
}
