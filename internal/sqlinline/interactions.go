package sqlinline

const QInsertInteraction = `--sql ad923d2c-6d80-419b-bb0a-1dcad1d8a747
insert into interactions (id, user_id, detail, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, now());
`

const QSelectInteractionsByUser = `--sql 646bfa35-1dcb-4822-9a05-357c1f69d434
select detail
from interactions
where user_id = $1::uuid
order by created_at desc
limit $2::int;
`
