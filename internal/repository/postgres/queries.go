package postgres

const (
	queryUpsertIntegration = `insert into github.integrations
    		(user_id, github_user_id, username, access_token, profile_url, integration_date, is_active, profile)
    		values ($1, $2, $3, $4, $5, $6, true, $7)
    		on conflict (github_user_id) do update set
    			user_id = excluded.user_id,
    			username = excluded.username,
    			access_token = excluded.access_token,
    			profile_url = excluded.profile_url,
    			integration_date = excluded.integration_date,
    			is_active = true,
    			profile = excluded.profile,
    			updated_at = now()
    		returning user_id, github_user_id, username, access_token, profile_url, integration_date, is_active`

	queryGetIntegration = `select user_id, github_user_id, username, access_token, profile_url, integration_date, is_active
    		from github.integrations where user_id = $1`

	queryDeleteIntegration = `delete from github.integrations where user_id = $1`

	queryUpsertRepo = `insert into github.repos (repo_id, doc) values ($1, $2)
    		on conflict (repo_id) do update set doc = excluded.doc, updated_at = now()`

	queryRepoByID = `select doc from github.repos where repo_id = $1`
)

// Per-collection statements are built from the registry descriptor; the
// identifiers come from domain.Collections, never from request input.
const (
	tmplInsertLinked = `insert into github.%s (%s, repo_id, doc) values ($1, $2, $3)
    		on conflict (%s) do nothing`

	tmplInsertPlain = `insert into github.%s (%s, doc) values ($1, $2)
    		on conflict (%s) do nothing`

	tmplSelectDocs = `select doc from github.%s %s order by doc->>'created_at' desc nulls last offset $%d limit $%d`

	tmplCountDocs = `select count(*) from github.%s %s`

	tmplSampleDoc = `select doc from github.%s limit 1`

	tmplFacet = `select doc#>>$1 as value, count(*) from github.%s %s group by 1 order by 2 desc limit 10`

	tmplDocsByRepo = `select doc from github.%s where repo_id = $1 order by doc->>'created_at' desc nulls last`
)
