package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"

	"ptrs-service/internal/models"
)

var ErrRuleNotFound = errors.New("exclusion rule not found")

type RuleRepository interface {
	GetRulesByClientID(clientID string) ([]models.ExclusionRule, error)
	InsertRule(rule *models.ExclusionRule) error
	DeleteRule(id int64) error
}

type ruleRepository struct {
	db *sql.DB
}

func NewRuleRepository(db *sql.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) GetRulesByClientID(clientID string) ([]models.ExclusionRule, error) {
	query := `
		SELECT id, client_id, field, type, terms, created_at
		FROM tcp_exclusion_rules
		WHERE client_id = ?
		ORDER BY id
	`
	rows, err := r.db.Query(query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.ExclusionRule
	for rows.Next() {
		var rule models.ExclusionRule
		var terms []byte
		err := rows.Scan(
			&rule.ID,
			&rule.ClientID,
			&rule.Field,
			&rule.Type,
			&terms,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(terms, &rule.Terms); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *ruleRepository) InsertRule(rule *models.ExclusionRule) error {
	terms, err := json.Marshal(rule.Terms)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tcp_exclusion_rules (client_id, field, type, terms)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.Exec(query, rule.ClientID, rule.Field, rule.Type, terms)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rule.ID = id
	return nil
}

func (r *ruleRepository) DeleteRule(id int64) error {
	result, err := r.db.Exec(`DELETE FROM tcp_exclusion_rules WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}
