package sqlinline

const QInsertRecreatedBackground = `--sql 8a49b02a-8964-4654-9c57-d40e347b83be
insert into recreated_backgrounds (id, background_id, concept_option, image_url, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::jsonb, '', now(), now())
returning id, version;
`

const QSelectRecreatedBackgroundByID = `--sql e5f99bf8-1a30-4a8c-9839-e6bd21848ee6
select id, background_id, concept_option, image_url, version, created_at, updated_at
from recreated_backgrounds
where id = $1::uuid
  and is_deleted = false
limit 1;
`

const QUpdateRecreatedBackgroundResult = `--sql b01dd4c5-695d-4c8a-b8df-f80dd08a8c52
update recreated_backgrounds
set image_url = $2::text,
    version = version + 1,
    updated_at = now()
where id = $1::uuid
  and version = $3::int
  and is_deleted = false;
`

const QSoftDeleteRecreatedBackground = `--sql ecbaaf5c-1a01-48dc-a10a-7ecfd7d002c3
update recreated_backgrounds
set is_deleted = true, updated_at = now()
where id = $1::uuid
  and is_deleted = false
returning image_url;
`
