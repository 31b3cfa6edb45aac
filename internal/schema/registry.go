// Package schema describes the fotogram entities and the named relationships between
// them. A Registry is built once at startup and handed to the storage layer; nothing in
// this package holds global state.
package schema

import (
	"errors"
	"fmt"
	"sort"

	"fotogram/internal/models"

	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"
)

// Entity is one persisted type and the table it maps to.
type Entity struct {
	Name  string
	Table string
	Model any
}

// Relation is a named path from one entity to another. ForeignKey is always the column
// on the "many" side, so both ends of a pair name the same column.
type Relation struct {
	Entity     string
	Name       string
	Field      string
	Target     string
	ForeignKey string
	Kind       gormschema.RelationshipType
}

// Registry holds the entity set in creation order plus every named relation.
type Registry struct {
	entities  []Entity
	byName    map[string]Entity
	relations map[string]map[string]Relation
}

// NewRegistry returns the registry for the User, Post, Comment, Media and Follower schema.
func NewRegistry() *Registry {
	r := &Registry{
		byName:    make(map[string]Entity),
		relations: make(map[string]map[string]Relation),
	}

	r.addEntity("User", &models.User{})
	r.addEntity("Post", &models.Post{})
	r.addEntity("Comment", &models.Comment{})
	r.addEntity("Media", &models.Media{})
	r.addEntity("Follower", &models.Follower{})

	r.pair("User", "posts", "Posts", "Post", "user", "User", "user_id")
	r.pair("User", "comments", "Comments", "Comment", "author", "Author", "author_id")
	r.pair("Post", "comments", "Comments", "Comment", "post", "Post", "post_id")
	r.pair("Post", "media", "Media", "Media", "post", "Post", "post_id")
	r.pair("User", "following", "Following", "Follower", "user_from", "UserFrom", "user_from_id")
	r.pair("User", "followers", "Followers", "Follower", "user_to", "UserTo", "user_to_id")

	return r
}

type tabler interface {
	TableName() string
}

func (r *Registry) addEntity(name string, model tabler) {
	e := Entity{Name: name, Table: model.TableName(), Model: model}
	r.entities = append(r.entities, e)
	r.byName[name] = e
}

// pair registers a has-many relation on parent and its belongs-to inverse on child.
func (r *Registry) pair(parent, manyName, manyField, child, oneName, oneField, fk string) {
	r.addRelation(Relation{Entity: parent, Name: manyName, Field: manyField, Target: child, ForeignKey: fk, Kind: gormschema.HasMany})
	r.addRelation(Relation{Entity: child, Name: oneName, Field: oneField, Target: parent, ForeignKey: fk, Kind: gormschema.BelongsTo})
}

func (r *Registry) addRelation(rel Relation) {
	if r.relations[rel.Entity] == nil {
		r.relations[rel.Entity] = make(map[string]Relation)
	}
	r.relations[rel.Entity][rel.Name] = rel
}

// Entities returns the entities in foreign-key order: every table comes after the
// tables it references.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// Models returns the model pointers in creation order, ready for AutoMigrate.
func (r *Registry) Models() []any {
	out := make([]any, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e.Model)
	}
	return out
}

// Entity looks an entity up by name.
func (r *Registry) Entity(name string) (Entity, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Relation resolves a named relation such as ("User", "following").
func (r *Registry) Relation(entity, name string) (Relation, bool) {
	rel, ok := r.relations[entity][name]
	return rel, ok
}

// Counterpart returns the other has-many relation on the same entity that reaches the
// same join entity through a different foreign key, e.g. User.followers for
// User.following.
func (r *Registry) Counterpart(entity, name string) (Relation, bool) {
	rel, ok := r.Relation(entity, name)
	if !ok || rel.Kind != gormschema.HasMany {
		return Relation{}, false
	}
	for _, other := range r.relations[entity] {
		if other.Name != rel.Name && other.Kind == gormschema.HasMany &&
			other.Target == rel.Target && other.ForeignKey != rel.ForeignKey {
			return other, true
		}
	}
	return Relation{}, false
}

// Relations lists every relation declared on entity, sorted by name.
func (r *Registry) Relations(entity string) []Relation {
	out := make([]Relation, 0, len(r.relations[entity]))
	for _, rel := range r.relations[entity] {
		out = append(out, rel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Verify parses every model with gorm and checks that each declared relation exists
// with the expected kind, target table and foreign key column.
func (r *Registry) Verify(db *gorm.DB) error {
	var errs []error

	for _, e := range r.entities {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(e.Model); err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", e.Name, err))
			continue
		}
		parsed := stmt.Schema

		if parsed.Table != e.Table {
			errs = append(errs, fmt.Errorf("%s: table %q, declared %q", e.Name, parsed.Table, e.Table))
		}

		for _, rel := range r.Relations(e.Name) {
			if err := r.verifyRelation(parsed, rel); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (r *Registry) verifyRelation(parsed *gormschema.Schema, rel Relation) error {
	got, ok := parsed.Relationships.Relations[rel.Field]
	if !ok {
		return fmt.Errorf("%s.%s: no relationship on field %s", rel.Entity, rel.Name, rel.Field)
	}
	if got.Type != rel.Kind {
		return fmt.Errorf("%s.%s: kind %s, declared %s", rel.Entity, rel.Name, got.Type, rel.Kind)
	}

	target := r.byName[rel.Target]
	if got.FieldSchema == nil || got.FieldSchema.Table != target.Table {
		return fmt.Errorf("%s.%s: does not point at %s", rel.Entity, rel.Name, target.Table)
	}

	for _, ref := range got.References {
		if ref.ForeignKey != nil && ref.ForeignKey.DBName == rel.ForeignKey {
			return nil
		}
	}
	return fmt.Errorf("%s.%s: foreign key %s not found", rel.Entity, rel.Name, rel.ForeignKey)
}
