package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"fotogram/internal/models"
	"fotogram/internal/repository"
	"fotogram/internal/schema"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixture is a hand-written data set. Comments and follow edges refer to users by
// username, so a fixture reads top-down without ids.
type Fixture struct {
	Users   []FixtureUser   `yaml:"users"`
	Follows []FixtureFollow `yaml:"follows"`
}

type FixtureUser struct {
	Username  string        `yaml:"username"`
	FirstName string        `yaml:"firstname"`
	LastName  string        `yaml:"lastname"`
	Email     string        `yaml:"email"`
	Password  string        `yaml:"password"`
	Posts     []FixturePost `yaml:"posts"`
}

type FixturePost struct {
	Title    string           `yaml:"titulo"`
	Link     string           `yaml:"enlace"`
	Media    []FixtureMedia   `yaml:"media"`
	Comments []FixtureComment `yaml:"comments"`
}

type FixtureMedia struct {
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
}

type FixtureComment struct {
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

type FixtureFollow struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoadFixture decodes a YAML fixture. Unknown keys are rejected.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil {
		if err == io.EOF {
			return &fx, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &fx, nil
}

// LoadFixtureFile reads a fixture from path.
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer func() { _ = file.Close() }()
	return LoadFixture(file)
}

// ApplyFixture writes fx in one transaction (or builds it in memory when opts.DryRun is
// set). Users are created first so comments and follows can name any of them. A name
// the fixture does not declare is looked up among the users already stored.
func ApplyFixture(ctx context.Context, db *gorm.DB, fx *Fixture, opts Options) (Summary, error) {
	var sum Summary
	apply := func(tx *gorm.DB) error {
		var err error
		sum, err = applyFixture(ctx, NewFactory(tx, opts), fx)
		return err
	}

	var err error
	if opts.DryRun {
		err = apply(db)
	} else {
		err = db.WithContext(ctx).Transaction(apply)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("apply fixture: %w", err)
	}
	return sum, nil
}

func applyFixture(ctx context.Context, f *Factory, fx *Fixture) (Summary, error) {
	var sum Summary
	byName := make(map[string]*models.User, len(fx.Users))

	for _, fu := range fx.Users {
		hashed, err := f.hash(fu.Password)
		if err != nil {
			return sum, err
		}
		u, err := f.CreateUser(ctx, func(u *models.User) {
			u.Username = fu.Username
			u.FirstName = fu.FirstName
			u.LastName = fu.LastName
			u.Email = fu.Email
			u.Password = hashed
		})
		if err != nil {
			return sum, err
		}
		byName[fu.Username] = u
		sum.Users++
	}

	var stored repository.UserRepository
	if f.db != nil {
		stored = repository.NewUserRepository(f.db, schema.NewRegistry(), nil)
	}
	lookup := func(name string) (*models.User, error) {
		if u, ok := byName[name]; ok {
			return u, nil
		}
		if stored != nil {
			u, err := stored.GetByUsername(ctx, name)
			if err == nil {
				byName[name] = u
				return u, nil
			}
			if !models.IsNotFound(err) {
				return nil, err
			}
		}
		return nil, models.NewValidationError(fmt.Sprintf("fixture references unknown user %q", name))
	}

	for _, fu := range fx.Users {
		owner := byName[fu.Username]
		for _, fp := range fu.Posts {
			post, err := f.CreatePost(ctx, owner, func(p *models.Post) {
				p.Title = fp.Title
				p.Link = fp.Link
			})
			if err != nil {
				return sum, err
			}
			sum.Posts++

			for _, fm := range fp.Media {
				if _, err := f.CreateMedia(ctx, post, func(m *models.Media) {
					m.Type = models.MediaType(fm.Type)
					m.URL = fm.URL
				}); err != nil {
					return sum, err
				}
				sum.Media++
			}

			for _, fc := range fp.Comments {
				author, err := lookup(fc.Author)
				if err != nil {
					return sum, err
				}
				if _, err := f.CreateComment(ctx, author, post, func(c *models.Comment) {
					c.Text = fc.Text
				}); err != nil {
					return sum, err
				}
				sum.Comments++
			}
		}
	}

	for _, ff := range fx.Follows {
		from, err := lookup(ff.From)
		if err != nil {
			return sum, err
		}
		to, err := lookup(ff.To)
		if err != nil {
			return sum, err
		}
		if _, err := f.CreateFollow(ctx, from, to); err != nil {
			return sum, err
		}
		sum.Followers++
	}

	return sum, nil
}
