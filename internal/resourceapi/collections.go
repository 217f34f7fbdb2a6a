package resourceapi

import (
	"net/http"

	"github.com/taskboardhq/taskboard-api/internal/models"
)

type projectClient struct {
	c *Client
}

func (p *projectClient) List() ([]models.Project, error) {
	var projects []models.Project
	if err := p.c.do(http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (p *projectClient) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := p.c.do(http.MethodGet, "/projects/"+queryEscape(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (p *projectClient) Create(project *models.Project) error {
	return p.c.do(http.MethodPost, "/projects", project, project)
}

func (p *projectClient) Replace(project *models.Project) error {
	return p.c.do(http.MethodPut, "/projects/"+queryEscape(project.ID), project, project)
}

func (p *projectClient) Delete(id string) error {
	return p.c.do(http.MethodDelete, "/projects/"+queryEscape(id), nil, nil)
}

type notificationClient struct {
	c *Client
}

func (n *notificationClient) List() ([]models.Notification, error) {
	var notifications []models.Notification
	if err := n.c.do(http.MethodGet, "/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (n *notificationClient) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	if err := n.c.do(http.MethodGet, "/notifications/"+queryEscape(id), nil, &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (n *notificationClient) Create(notification *models.Notification) error {
	return n.c.do(http.MethodPost, "/notifications", notification, notification)
}

func (n *notificationClient) Replace(notification *models.Notification) error {
	return n.c.do(http.MethodPut, "/notifications/"+queryEscape(notification.ID), notification, notification)
}

func (n *notificationClient) Delete(id string) error {
	return n.c.do(http.MethodDelete, "/notifications/"+queryEscape(id), nil, nil)
}

func (n *notificationClient) ListRecentByRecipientAndType(toUserID *string, notificationType string) ([]models.Notification, error) {
	path := "/notifications?type=" + queryEscape(notificationType)
	if toUserID != nil {
		path += "&toUserId=" + queryEscape(*toUserID)
	}
	var notifications []models.Notification
	if err := n.c.do(http.MethodGet, path, nil, &notifications); err != nil {
		return nil, err
	}
	// The remote store cannot filter "toUserId absent", so broadcasts are
	// narrowed here.
	if toUserID == nil {
		filtered := notifications[:0]
		for _, item := range notifications {
			if item.ToUserID == nil {
				filtered = append(filtered, item)
			}
		}
		notifications = filtered
	}
	return notifications, nil
}

type userClient struct {
	c *Client
}

func (u *userClient) List() ([]models.User, error) {
	var users []models.User
	if err := u.c.do(http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *userClient) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := u.c.do(http.MethodGet, "/users/"+queryEscape(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *userClient) Create(user *models.User) error {
	return u.c.do(http.MethodPost, "/users", user, user)
}

func (u *userClient) Replace(user *models.User) error {
	return u.c.do(http.MethodPut, "/users/"+queryEscape(user.ID), user, user)
}
