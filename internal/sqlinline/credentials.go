package sqlinline

const QSelectIntegrationToken = `--sql 3f6b1c9e-8d2a-4f5b-9c41-7e0a2d6b8f13
select token
from integration_credentials
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql a91d4e27-5b3c-46f8-8e72-0c1f9b5d3a64
insert into integration_credentials (provider, token, props, created_at, updated_at)
values ($1::text, $2::text, $3::jsonb, now(), now())
on conflict (provider)
do update set token = excluded.token, props = excluded.props, updated_at = now();
`
