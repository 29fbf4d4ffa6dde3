package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// AdminStats представляет статистику для панели администратора
type AdminStats struct {
	UserCount           int `json:"user_count"`
	AdminCount          int `json:"admin_count"`
	InterviewCount      int `json:"interview_count"`
	PositionCount       int `json:"position_count"`
	ActivePositionCount int `json:"active_position_count"`
}

// AdminUserPage представляет страницу списка пользователей
type AdminUserPage struct {
	Users       []User `json:"users"`
	Total       int    `json:"total"`
	Pages       int    `json:"pages"`
	CurrentPage int    `json:"current_page"`
}

// PositionInfo представляет позицию в панели администратора
type PositionInfo struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type adminStatsResponse struct {
	Success bool        `json:"success"`
	Stats   *AdminStats `json:"stats"`
	Msg     string      `json:"msg"`
}

type adminUsersResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
	Total   int    `json:"total"`
	Pages   int    `json:"pages"`
	Current int    `json:"current_page"`
	Msg     string `json:"msg"`
}

type adminPositionsResponse struct {
	Success   bool           `json:"success"`
	Positions []PositionInfo `json:"positions"`
	Msg       string         `json:"msg"`
}

type adminRecordsResponse struct {
	Success bool     `json:"success"`
	Records []Record `json:"records"`
	Total   int      `json:"total"`
	Msg     string   `json:"msg"`
}

// AdminStats возвращает сводную статистику
func (c *Client) AdminStats() (*AdminStats, error) {
	var resp adminStatsResponse
	err := c.getJSON("/api/admin/stats", &resp, true)
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.Stats == nil {
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Msg)
	}
	return resp.Stats, nil
}

// AdminUsers возвращает страницу списка пользователей
func (c *Client) AdminUsers(page, perPage int) (*AdminUserPage, error) {
	path := fmt.Sprintf("/api/admin/users?page=%d&per_page=%d", page, perPage)
	var resp adminUsersResponse
	err := c.getJSON(path, &resp, true)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Msg)
	}
	return &AdminUserPage{
		Users:       resp.Users,
		Total:       resp.Total,
		Pages:       resp.Pages,
		CurrentPage: resp.Current,
	}, nil
}

// AdminUpdateUser обновляет поля пользователя
func (c *Client) AdminUpdateUser(userID int, fields map[string]interface{}) error {
	return c.adminMutate(http.MethodPut, "/api/admin/users/"+strconv.Itoa(userID), fields)
}

// AdminDeleteUser удаляет пользователя вместе с его записями интервью
func (c *Client) AdminDeleteUser(userID int) error {
	return c.adminMutate(http.MethodDelete, "/api/admin/users/"+strconv.Itoa(userID), nil)
}

// AdminPositions возвращает все позиции, включая неактивные
func (c *Client) AdminPositions() ([]PositionInfo, error) {
	var resp adminPositionsResponse
	err := c.getJSON("/api/admin/positions", &resp, true)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", ErrServer, resp.Msg)
	}
	return resp.Positions, nil
}

// AdminCreatePosition создает новую позицию
func (c *Client) AdminCreatePosition(name, description string) error {
	if name == "" {
		return fmt.Errorf("%w: название позиции не может быть пустым", ErrValidation)
	}
	return c.adminMutate(http.MethodPost, "/api/admin/positions", map[string]interface{}{
		"name":        name,
		"description": description,
	})
}

// AdminUpdatePosition обновляет позицию
func (c *Client) AdminUpdatePosition(positionID int, fields map[string]interface{}) error {
	return c.adminMutate(http.MethodPut, "/api/admin/positions/"+strconv.Itoa(positionID), fields)
}

// AdminDeletePosition удаляет позицию
func (c *Client) AdminDeletePosition(positionID int) error {
	return c.adminMutate(http.MethodDelete, "/api/admin/positions/"+strconv.Itoa(positionID), nil)
}

// AdminInterviews возвращает записи интервью всех пользователей
func (c *Client) AdminInterviews(page, perPage int) ([]Record, int, error) {
	path := fmt.Sprintf("/api/admin/interviews?page=%d&per_page=%d", page, perPage)
	var resp adminRecordsResponse
	err := c.getJSON(path, &resp, true)
	if err != nil {
		return nil, 0, err
	}
	if !resp.Success {
		return nil, 0, fmt.Errorf("%w: %s", ErrServer, resp.Msg)
	}
	return resp.Records, resp.Total, nil
}

// adminMutate выполняет изменяющий запрос панели администратора
func (c *Client) adminMutate(method, path string, body map[string]interface{}) error {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("ошибка сериализации запроса: %w", marshalErr)
		}
		req, err = http.NewRequest(method, c.baseURL+path, bytes.NewBuffer(jsonBody))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequest(method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	respBody, err := c.doRequest(req, true)
	if err != nil {
		return err
	}

	var resp simpleResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("%w: ошибка разбора ответа: %v", ErrServer, err)
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrServer, serverMessage(respBody))
	}
	return nil
}
