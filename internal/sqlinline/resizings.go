package sqlinline

const QInsertResizedImage = `--sql 7da598dd-3990-4296-b922-3de09a6cc39f
insert into resized_images (
    id, width, height, background_id, recreated_background_id,
    image_url, created_at, updated_at
)
values (
    gen_random_uuid(), $1::int, $2::int, $3::uuid, $4::uuid,
    '', now(), now()
)
returning id, version;
`

const QSelectResizedImageByID = `--sql ced13ff8-3054-4163-ae5e-7afbfcd67b27
select id, width, height,
       coalesce(background_id::text, ''), coalesce(recreated_background_id::text, ''),
       image_url, version, created_at, updated_at
from resized_images
where id = $1::uuid
  and is_deleted = false
limit 1;
`

const QUpdateResizedImageResult = `--sql c790758d-47a1-4c42-a85c-d4e3560b3237
update resized_images
set image_url = $2::text,
    version = version + 1,
    updated_at = now()
where id = $1::uuid
  and version = $3::int
  and is_deleted = false;
`

const QSoftDeleteResizedImage = `--sql 7645c5c6-0367-4caf-8d1c-aa4961eb5a35
update resized_images
set is_deleted = true, updated_at = now()
where id = $1::uuid
  and is_deleted = false
returning image_url;
`
