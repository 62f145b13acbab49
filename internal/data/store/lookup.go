package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/penwyp/go-worktime-tracker/internal/core/model"
)

// UpsertUrlRoute registers a URL pattern for a project. A pattern routes to
// exactly one project; re-registering it moves it to the new project.
func (s *Store) UpsertUrlRoute(project, urlPattern string) error {
	if project == "" || urlPattern == "" {
		return fmt.Errorf("url route needs both project and pattern")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO url_routes (project, url) VALUES (?, ?)
		ON CONFLICT(url) DO UPDATE SET project = excluded.project`,
		project, urlPattern,
	)
	if err != nil {
		return fmt.Errorf("upsert url route: %w", err)
	}
	return nil
}

// RemoveUrlRoute deletes a URL pattern.
func (s *Store) RemoveUrlRoute(urlPattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM url_routes WHERE url = ?`, urlPattern)
	if err != nil {
		return fmt.Errorf("remove url route: %w", err)
	}
	return nil
}

// ListUrlRoutes returns the routes for one project, or all routes when
// project is empty, ordered by pattern.
func (s *Store) ListUrlRoutes(project string) ([]model.UrlRoute, error) {
	query := `SELECT id, project, url FROM url_routes ORDER BY url ASC`
	args := []interface{}{}
	if project != "" {
		query = `SELECT id, project, url FROM url_routes WHERE project = ? ORDER BY url ASC`
		args = append(args, project)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list url routes: %w", err)
	}
	defer rows.Close()

	var routes []model.UrlRoute
	for rows.Next() {
		var r model.UrlRoute
		if err := rows.Scan(&r.ID, &r.Project, &r.URL); err != nil {
			return nil, fmt.Errorf("scan url route: %w", err)
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// ResolveRoute finds the project for a visited host. Patterns match as
// substrings of the host; when several match, the lexicographically
// greatest pattern wins. A miss is not an error, just ok=false.
func (s *Store) ResolveRoute(host string) (string, bool, error) {
	var project string
	err := s.db.QueryRow(`
		SELECT project FROM url_routes
		WHERE instr(?, url) > 0
		ORDER BY url DESC
		LIMIT 1`,
		host,
	).Scan(&project)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("resolve route: %w", err)
	}
	return project, true, nil
}

// IgnoreProject hides a project from default summary views. Its sessions
// stay in the store untouched.
func (s *Store) IgnoreProject(project string) error {
	if project == "" {
		return fmt.Errorf("ignore needs a project name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO ignored_projects (project_name, ignored_at) VALUES (?, ?)
		ON CONFLICT(project_name) DO NOTHING`,
		project, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("ignore project: %w", err)
	}
	return nil
}

// UnignoreProject restores a project to default views.
func (s *Store) UnignoreProject(project string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM ignored_projects WHERE project_name = ?`, project)
	if err != nil {
		return fmt.Errorf("unignore project: %w", err)
	}
	return nil
}

// ListIgnoredProjects returns all hidden projects.
func (s *Store) ListIgnoredProjects() ([]model.IgnoredProject, error) {
	rows, err := s.db.Query(`
		SELECT id, project_name, ignored_at FROM ignored_projects ORDER BY project_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list ignored projects: %w", err)
	}
	defer rows.Close()

	var ignored []model.IgnoredProject
	for rows.Next() {
		var (
			p         model.IgnoredProject
			ignoredAt int64
		)
		if err := rows.Scan(&p.ID, &p.Project, &ignoredAt); err != nil {
			return nil, fmt.Errorf("scan ignored project: %w", err)
		}
		p.IgnoredAt = time.Unix(ignoredAt, 0)
		ignored = append(ignored, p)
	}
	return ignored, rows.Err()
}

// SetProjectDisplay stores presentation overrides for a project.
func (s *Store) SetProjectDisplay(project, customName, logoURL string) error {
	if project == "" {
		return fmt.Errorf("display override needs a project name")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO project_display (project_name, custom_name, logo_url) VALUES (?, ?, ?)
		ON CONFLICT(project_name) DO UPDATE SET custom_name = excluded.custom_name, logo_url = excluded.logo_url`,
		project, customName, logoURL,
	)
	if err != nil {
		return fmt.Errorf("set project display: %w", err)
	}
	return nil
}

// RemoveProjectDisplay drops the overrides for a project.
func (s *Store) RemoveProjectDisplay(project string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM project_display WHERE project_name = ?`, project)
	if err != nil {
		return fmt.Errorf("remove project display: %w", err)
	}
	return nil
}

// GetProjectDisplay returns the overrides for a project, or nil when none exist.
func (s *Store) GetProjectDisplay(project string) (*model.ProjectDisplay, error) {
	var d model.ProjectDisplay
	err := s.db.QueryRow(`
		SELECT id, project_name, custom_name, logo_url FROM project_display WHERE project_name = ?`,
		project,
	).Scan(&d.ID, &d.Project, &d.CustomName, &d.LogoURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project display: %w", err)
	}
	return &d, nil
}

// ListProjectDisplays returns all display overrides.
func (s *Store) ListProjectDisplays() ([]model.ProjectDisplay, error) {
	rows, err := s.db.Query(`
		SELECT id, project_name, custom_name, logo_url FROM project_display ORDER BY project_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list project displays: %w", err)
	}
	defer rows.Close()

	var displays []model.ProjectDisplay
	for rows.Next() {
		var d model.ProjectDisplay
		if err := rows.Scan(&d.ID, &d.Project, &d.CustomName, &d.LogoURL); err != nil {
			return nil, fmt.Errorf("scan project display: %w", err)
		}
		displays = append(displays, d)
	}
	return displays, rows.Err()
}
