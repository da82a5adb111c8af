package sqlite

// schema mirrors the ATS tables the résumé records come from. An applicant may
// apply more than once; the most recent application detail wins.
const schema = `
CREATE TABLE IF NOT EXISTS ApplicantProfile (
    applicant_id  INTEGER PRIMARY KEY,
    first_name    TEXT NOT NULL,
    last_name     TEXT NOT NULL DEFAULT '',
    date_of_birth TEXT,
    address       TEXT,
    phone_number  TEXT
);

CREATE TABLE IF NOT EXISTS ApplicationDetail (
    detail_id        INTEGER PRIMARY KEY AUTOINCREMENT,
    applicant_id     INTEGER NOT NULL REFERENCES ApplicantProfile(applicant_id) ON DELETE CASCADE,
    application_role TEXT NOT NULL DEFAULT '',
    category         TEXT NOT NULL DEFAULT '',
    cv_path          TEXT NOT NULL DEFAULT '',
    cv_text          TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_detail_applicant ON ApplicationDetail(applicant_id);
`

const selectRecords = `
SELECT p.applicant_id, p.first_name, p.last_name,
       d.cv_path, d.cv_text, d.category, d.application_role
FROM ApplicantProfile p
JOIN ApplicationDetail d ON d.detail_id = (
    SELECT MAX(detail_id) FROM ApplicationDetail WHERE applicant_id = p.applicant_id
)`
